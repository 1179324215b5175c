package domain

import (
	"context"
	"errors"
)

type CreateRequest struct {
	Name   string `json:"name"`
	SIRET  string `json:"siret"`
	Sector string `json:"sector"`
}

// Membership is the company an authenticated user acts for.
type Membership struct {
	Company Company `json:"company"`
	Role    Role    `json:"role"`
}

type Service interface {
	Create(ctx context.Context, userID string, req CreateRequest) (Membership, error)
	ResolveForUser(ctx context.Context, userID string) (Membership, error)
}

var (
	ErrNotFound      = errors.New("company_not_found")
	ErrInvalidUser   = errors.New("invalid_user")
	ErrAlreadyMember = errors.New("already_member")
)
