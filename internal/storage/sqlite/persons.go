package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/veikkola/phonebook/internal/models"
	"github.com/veikkola/phonebook/internal/storage"
)

// An unset phone is stored as NULL so the presence filter can use the
// index-friendly IS NULL / IS NOT NULL predicates.
func phoneValue(phone string) interface{} {
	if phone == "" {
		return nil
	}
	return phone
}

func scanPerson(row interface{ Scan(...interface{}) error }) (*models.Person, error) {
	person := &models.Person{}
	var phone sql.NullString
	if err := row.Scan(&person.ID, &person.Name, &phone, &person.Street, &person.City, &person.CreatedAt); err != nil {
		return nil, err
	}
	person.Phone = phone.String
	return person, nil
}

// CountPersons returns the number of persons in the collection.
func (s *SQLiteStore) CountPersons(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM persons").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count persons: %w", err)
	}
	return count, nil
}

// ListPersons returns persons filtered by phone presence. A nil filter
// returns all persons.
func (s *SQLiteStore) ListPersons(ctx context.Context, phoneExists *bool) ([]models.Person, error) {
	query := "SELECT id, name, phone, street, city, created_at FROM persons"
	switch {
	case phoneExists == nil:
	case *phoneExists:
		query += " WHERE phone IS NOT NULL"
	default:
		query += " WHERE phone IS NULL"
	}
	query += " ORDER BY created_at, name"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	var persons []models.Person
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		persons = append(persons, *person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate persons: %w", err)
	}

	return persons, nil
}

// GetPersonByName retrieves a person by exact name.
func (s *SQLiteStore) GetPersonByName(ctx context.Context, name string) (*models.Person, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, phone, street, city, created_at FROM persons WHERE name = ?",
		name,
	)
	person, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("person %q: %w", name, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person by name: %w", err)
	}
	return person, nil
}

// CreatePerson persists a new person, assigning its ID and CreatedAt.
func (s *SQLiteStore) CreatePerson(ctx context.Context, person *models.Person) error {
	if person.Name == "" || person.Street == "" || person.City == "" {
		return fmt.Errorf("person needs name, street and city: %w", storage.ErrMissingField)
	}
	if person.ID == "" {
		person.ID = uuid.New().String()
	}
	if person.CreatedAt == 0 {
		person.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO persons (id, name, phone, street, city, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		person.ID, person.Name, phoneValue(person.Phone), person.Street, person.City, person.CreatedAt,
	)
	return classify(err, "failed to create person")
}

// UpdatePerson updates an existing person's phone and address fields.
func (s *SQLiteStore) UpdatePerson(ctx context.Context, person *models.Person) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE persons SET phone = ?, street = ?, city = ? WHERE id = ?",
		phoneValue(person.Phone), person.Street, person.City, person.ID,
	)
	if err != nil {
		return classify(err, "failed to update person")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("person %q: %w", person.ID, storage.ErrNotFound)
	}
	return nil
}
