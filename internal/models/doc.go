// Package models defines the core domain models for the phonebook service.
//
// Person is a contact record; User is an account holder whose Friends list
// references Persons by ID. The friends relationship is owned by the User
// (the sequence, not the Persons themselves). Models use ID strings instead
// of pointers for relationships to avoid circular references.
package models
