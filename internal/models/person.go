package models

// Person represents a single phonebook contact.
//
// Persons are owned by the person collection; users reference them from
// their friends list by ID without owning them.
type Person struct {
	// ID is the unique identifier for the person (UUID format).
	ID string

	// Name is the contact's display name. Unique across the collection,
	// enforced by storage.
	Name string

	// Phone is the contact's phone number. Optional; empty means unset.
	Phone string

	// Street and City make up the contact's address.
	Street string
	City   string

	// CreatedAt is the Unix timestamp when the person was added.
	CreatedAt int64
}

// Address is the computed address view of a Person. It is derived from the
// Street and City fields at read time and never stored separately.
type Address struct {
	Street string
	City   string
}

// Address returns the person's computed address.
func (p *Person) Address() Address {
	return Address{Street: p.Street, City: p.City}
}

// HasPhone reports whether the person has a phone number set.
func (p *Person) HasPhone() bool {
	return p.Phone != ""
}
