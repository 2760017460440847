// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/veikkola/phonebook/internal/models"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique constraint (person name,
	// username) is violated.
	ErrDuplicate = errors.New("already exists")

	// ErrMissingField is returned when a required field is empty.
	ErrMissingField = errors.New("required field missing")
)

// Store defines the persistence surface the resolver layer depends on.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the resolvers.
type Store interface {
	// CountPersons returns the number of persons in the collection.
	CountPersons(ctx context.Context) (int, error)

	// ListPersons returns persons filtered by phone presence. A nil
	// filter returns everyone; true returns only persons with a phone
	// number, false only those without.
	ListPersons(ctx context.Context, phoneExists *bool) ([]models.Person, error)

	// GetPersonByName retrieves a person by exact name.
	// Returns ErrNotFound if no person matches.
	GetPersonByName(ctx context.Context, name string) (*models.Person, error)

	// CreatePerson persists a new person. The ID and CreatedAt fields are
	// populated by the store. Returns ErrDuplicate if the name is taken,
	// ErrMissingField if a required field is empty.
	CreatePerson(ctx context.Context, person *models.Person) error

	// UpdatePerson updates an existing person's mutable fields.
	// Returns ErrNotFound if the person does not exist.
	UpdatePerson(ctx context.Context, person *models.Person) error

	// GetUserByUsername retrieves a user by username, without friends
	// expanded. Returns ErrNotFound if no user matches.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves a user by ID. When withFriends is true the
	// user's friends list is expanded to full person records, in the
	// order the friends were added.
	GetUserByID(ctx context.Context, id string, withFriends bool) (*models.User, error)

	// CreateUser persists a new user with an empty friends list. The ID
	// and CreatedAt fields are populated by the store. Returns
	// ErrDuplicate if the username is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// AddFriend adds the person to the user's friends list if not
	// already present. The operation is atomic: concurrent calls for the
	// same pair can neither produce a duplicate nor lose an addition.
	AddFriend(ctx context.Context, userID, personID string) error

	// Close releases any resources held by the store.
	Close() error
}
