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

// CreateUser inserts a new user with an empty friends list.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.Username == "" {
		return fmt.Errorf("user needs a username: %w", storage.ErrMissingField)
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.Username, user.PasswordHash, user.CreatedAt,
	)
	return classify(err, "failed to create user")
}

// GetUserByUsername retrieves a user by username, without friends expanded.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?",
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q: %w", username, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID, optionally expanding each friend
// reference to its full person record.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string, withFriends bool) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE id = ?",
		id,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	if withFriends {
		friends, err := s.listFriends(ctx, id)
		if err != nil {
			return nil, err
		}
		user.Friends = friends
	}

	return user, nil
}

// AddFriend adds the person to the user's friends list if not already
// present. INSERT OR IGNORE against the composite primary key makes this
// an atomic add-if-absent, so concurrent calls cannot duplicate an entry
// or lose one.
func (s *SQLiteStore) AddFriend(ctx context.Context, userID, personID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO user_friends (user_id, person_id) VALUES (?, ?)",
		userID, personID,
	)
	return classify(err, "failed to add friend")
}

// listFriends returns the user's friends as full person records, ordered
// by when they were added (join-table rowid).
func (s *SQLiteStore) listFriends(ctx context.Context, userID string) ([]models.Person, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.phone, p.street, p.city, p.created_at
		FROM user_friends uf
		JOIN persons p ON p.id = uf.person_id
		WHERE uf.user_id = ?
		ORDER BY uf.rowid`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []models.Person
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, *person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}

	return friends, nil
}
