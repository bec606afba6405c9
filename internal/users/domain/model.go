// Package domain defines the User entity and its store contract.
package domain

import "errors"

var (
	// ErrDuplicate means a user with that email already exists.
	ErrDuplicate = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password, so
	// callers cannot distinguish the two.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// DefaultRole is assigned to every newly registered user.
const DefaultRole = "photographer"

// User is keyed by lowercased email. There is no update operation and no
// version field: users are created once and checked at login.
type User struct {
	Email        string   `dynamodbav:"email" json:"email"`
	PasswordHash string   `dynamodbav:"passwordHash" json:"-"`
	Salt         string   `dynamodbav:"salt" json:"-"`
	CreatedAt    string   `dynamodbav:"createdAt" json:"createdAt"`
	Roles        []string `dynamodbav:"roles" json:"roles"`
}
