// Package users declares the account store contract consumed by the session
// lifecycle service.
package users

import (
	"context"

	"github.com/lorenzotiziani/authcore/internal/server/models"
)

type Repository interface {
	// Create inserts a new account. A duplicate email (case-insensitive)
	// yields common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	UpdateProfile(ctx context.Context, id string, firstName, lastName string) (*models.User, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	// ListActive returns active accounts with credential material excluded
	// at the query level.
	ListActive(ctx context.Context) ([]*models.SanitizedUser, error)
}
