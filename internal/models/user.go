package models

// User represents a registered account holder.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the login name (unique).
	Username string

	// PasswordHash is the bcrypt hash checked at login.
	PasswordHash string

	// Friends is the user's contact list, in the order the contacts were
	// added. Populated only when the user is loaded with friends expanded;
	// contains no duplicates.
	Friends []Person

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// IsFriend reports whether the person with the given ID is already in the
// user's friends list. Compares by identifier, not by name.
func (u *User) IsFriend(personID string) bool {
	for _, f := range u.Friends {
		if f.ID == personID {
			return true
		}
	}
	return false
}
