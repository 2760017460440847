package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/veikkola/phonebook/internal/models"
	"github.com/veikkola/phonebook/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPersons(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreatePerson generates ID and timestamp", func(t *testing.T) {
		person := &models.Person{
			Name:   "Arto Hellas",
			Phone:  "040-123543",
			Street: "Tapiolankatu 5 A",
			City:   "Espoo",
		}

		if err := store.CreatePerson(ctx, person); err != nil {
			t.Fatalf("CreatePerson failed: %v", err)
		}
		if person.ID == "" {
			t.Error("Expected person ID to be generated")
		}
		if person.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("CreatePerson rejects duplicate name", func(t *testing.T) {
		person := &models.Person{
			Name:   "Arto Hellas",
			Street: "Somewhere 1",
			City:   "Espoo",
		}

		err := store.CreatePerson(ctx, person)
		if !errors.Is(err, storage.ErrDuplicate) {
			t.Errorf("Expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("CreatePerson rejects missing required fields", func(t *testing.T) {
		err := store.CreatePerson(ctx, &models.Person{Name: "No Address"})
		if !errors.Is(err, storage.ErrMissingField) {
			t.Errorf("Expected ErrMissingField, got %v", err)
		}
	})

	t.Run("GetPersonByName retrieves the person", func(t *testing.T) {
		person, err := store.GetPersonByName(ctx, "Arto Hellas")
		if err != nil {
			t.Fatalf("GetPersonByName failed: %v", err)
		}
		if person.Phone != "040-123543" {
			t.Errorf("Phone mismatch: got %q", person.Phone)
		}
		if person.Street != "Tapiolankatu 5 A" || person.City != "Espoo" {
			t.Errorf("Address mismatch: got %q, %q", person.Street, person.City)
		}
	})

	t.Run("GetPersonByName returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetPersonByName(ctx, "Nobody")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListPersons filters by phone presence", func(t *testing.T) {
		noPhone := &models.Person{
			Name:   "Venla Ruuska",
			Street: "Nallemäentie 22 C",
			City:   "Helsinki",
		}
		if err := store.CreatePerson(ctx, noPhone); err != nil {
			t.Fatalf("CreatePerson failed: %v", err)
		}

		all, err := store.ListPersons(ctx, nil)
		if err != nil {
			t.Fatalf("ListPersons failed: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("Expected 2 persons, got %d", len(all))
		}

		yes := true
		withPhone, err := store.ListPersons(ctx, &yes)
		if err != nil {
			t.Fatalf("ListPersons(yes) failed: %v", err)
		}
		if len(withPhone) != 1 || withPhone[0].Name != "Arto Hellas" {
			t.Errorf("Phone filter mismatch: %+v", withPhone)
		}

		no := false
		withoutPhone, err := store.ListPersons(ctx, &no)
		if err != nil {
			t.Fatalf("ListPersons(no) failed: %v", err)
		}
		if len(withoutPhone) != 1 || withoutPhone[0].Name != "Venla Ruuska" {
			t.Errorf("No-phone filter mismatch: %+v", withoutPhone)
		}
	})

	t.Run("CountPersons matches list length", func(t *testing.T) {
		count, err := store.CountPersons(ctx)
		if err != nil {
			t.Fatalf("CountPersons failed: %v", err)
		}
		all, err := store.ListPersons(ctx, nil)
		if err != nil {
			t.Fatalf("ListPersons failed: %v", err)
		}
		if count != len(all) {
			t.Errorf("Count mismatch: count=%d, list=%d", count, len(all))
		}
	})

	t.Run("UpdatePerson changes phone", func(t *testing.T) {
		person, err := store.GetPersonByName(ctx, "Venla Ruuska")
		if err != nil {
			t.Fatalf("GetPersonByName failed: %v", err)
		}

		person.Phone = "040-999888"
		if err := store.UpdatePerson(ctx, person); err != nil {
			t.Fatalf("UpdatePerson failed: %v", err)
		}

		updated, err := store.GetPersonByName(ctx, "Venla Ruuska")
		if err != nil {
			t.Fatalf("GetPersonByName failed: %v", err)
		}
		if updated.Phone != "040-999888" {
			t.Errorf("Phone not updated: got %q", updated.Phone)
		}
	})

	t.Run("UpdatePerson returns ErrNotFound for unknown ID", func(t *testing.T) {
		err := store.UpdatePerson(ctx, &models.Person{ID: "missing", Street: "S", City: "C"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestUsersAndFriends(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := &models.User{Username: "alice", PasswordHash: "hash"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == "" {
		t.Fatal("Expected user ID to be generated")
	}

	t.Run("CreateUser rejects duplicate username", func(t *testing.T) {
		err := store.CreateUser(ctx, &models.User{Username: "alice", PasswordHash: "hash"})
		if !errors.Is(err, storage.ErrDuplicate) {
			t.Errorf("Expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("GetUserByUsername finds the user", func(t *testing.T) {
		found, err := store.GetUserByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("GetUserByUsername failed: %v", err)
		}
		if found.ID != user.ID {
			t.Errorf("ID mismatch: got %s, want %s", found.ID, user.ID)
		}
	})

	t.Run("GetUserByID without friends leaves Friends nil", func(t *testing.T) {
		found, err := store.GetUserByID(ctx, user.ID, false)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if found.Friends != nil {
			t.Errorf("Expected nil friends, got %+v", found.Friends)
		}
	})

	t.Run("AddFriend preserves insertion order and dedups", func(t *testing.T) {
		first := &models.Person{Name: "Matti Luukkainen", Street: "Malminkaari 10 A", City: "Helsinki"}
		second := &models.Person{Name: "Venla Ruuska", Street: "Nallemäentie 22 C", City: "Helsinki"}
		for _, p := range []*models.Person{first, second} {
			if err := store.CreatePerson(ctx, p); err != nil {
				t.Fatalf("CreatePerson failed: %v", err)
			}
		}

		if err := store.AddFriend(ctx, user.ID, first.ID); err != nil {
			t.Fatalf("AddFriend failed: %v", err)
		}
		if err := store.AddFriend(ctx, user.ID, second.ID); err != nil {
			t.Fatalf("AddFriend failed: %v", err)
		}
		// Repeated add must be a no-op.
		if err := store.AddFriend(ctx, user.ID, first.ID); err != nil {
			t.Fatalf("Repeated AddFriend failed: %v", err)
		}

		loaded, err := store.GetUserByID(ctx, user.ID, true)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if len(loaded.Friends) != 2 {
			t.Fatalf("Expected 2 friends, got %d", len(loaded.Friends))
		}
		if loaded.Friends[0].Name != "Matti Luukkainen" || loaded.Friends[1].Name != "Venla Ruuska" {
			t.Errorf("Friend order mismatch: %+v", loaded.Friends)
		}
	})

	t.Run("GetUserByID returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "missing", true)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}
