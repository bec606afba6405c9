// Package domain defines the Invitation entity and its store contract.
package domain

import "errors"

var (
	// ErrNotFound means the addressed invitation does not exist.
	ErrNotFound = errors.New("invitation not found")
	// ErrCodeGeneration means code generation exhausted its retry budget
	// without finding an unused code. Not retriable by the caller.
	ErrCodeGeneration = errors.New("failed to generate unique invitation code")
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusClaimed Status = "CLAIMED"
	StatusExpired Status = "EXPIRED"
)

// Sender identifies who issued the invitation.
type Sender struct {
	UserID string `dynamodbav:"userId" json:"userId"`
	Name   string `dynamodbav:"name" json:"name"`
	Email  string `dynamodbav:"email" json:"email"`
}

// Invitation is keyed by invitationId with secondary lookups by code, sender
// and recipient email. The store never transitions Status on its own; callers
// (including the expiry sweeper) must call Update explicitly. ExpiresAt is a
// Unix-epoch TTL hint; enforcement is external to the store.
type Invitation struct {
	InvitationID string `dynamodbav:"invitationId" json:"invitationId"`
	Code         string `dynamodbav:"code" json:"code"`
	Email        string `dynamodbav:"email" json:"email"`
	From         Sender `dynamodbav:"from" json:"from"`
	FromUserID   string `dynamodbav:"fromUserId" json:"fromUserId"`
	Status       Status `dynamodbav:"status" json:"status"`
	ExpiresAt    int64  `dynamodbav:"expiresAt" json:"expiresAt"`
	CreatedAt    string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt    string `dynamodbav:"updatedAt" json:"updatedAt"`
	ClaimedAt    string `dynamodbav:"claimedAt,omitempty" json:"claimedAt,omitempty"`
}

// CreateInput carries the caller-supplied fields of a new invitation.
type CreateInput struct {
	Email string `json:"email"`
	From  Sender `json:"from"`
}

// UpdateInput is the allow-listed patch. Code, from and createdAt are
// immutable after creation.
type UpdateInput struct {
	Status    *Status `json:"status"`
	ExpiresAt *int64  `json:"expiresAt"`
	ClaimedAt *string `json:"claimedAt"`
}
