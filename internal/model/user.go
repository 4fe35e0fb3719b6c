package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  The json
// tags are omitted here because these structs are primarily used internally
// by the repository layer; handlers define separate response types with
// appropriate JSON tags.  The profile fields (first/last name, national id,
// birth date) are forwarded to providers as the paying-guest identity when
// the user books through the distribution layer.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique email address.
//	PasswordHash – bcrypt hashed password.
//	FirstName    – given name.
//	LastName     – family name(s).
//	NationalID   – optional national identity document number.
//	BirthDate    – optional date of birth.
//	IsActive     – whether the account is active.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	NationalID   string
	BirthDate    *time.Time
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
