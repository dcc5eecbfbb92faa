// Package refreshtokens declares the renewal-token store contract. Usability
// (not revoked, not expired) is always decided in SQL so no caller can get a
// stale answer.
package refreshtokens

import (
	"context"
	"time"

	"github.com/lorenzotiziani/authcore/internal/server/models"
)

type Repository interface {
	// Create revokes any usable tokens belonging to userID and then inserts
	// the new row. Callers that need the two steps to be observably atomic
	// run Create inside a transaction; together with the partial unique
	// index on usable rows this enforces at most one active session per
	// account.
	Create(ctx context.Context, userID string, token string, validity time.Duration) (*models.RefreshToken, error)
	// FindByToken returns the row in any state, or common.ErrorNotFound.
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	// FindUsableByToken returns the row only if it is not revoked and not
	// expired, or common.ErrorNotFound.
	FindUsableByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	// ConsumeByToken revokes the token only if it is still usable and
	// reports whether this call was the one that flipped it. Exactly one of
	// any number of concurrent consumers of the same token observes true.
	ConsumeByToken(ctx context.Context, token string) (bool, error)
	// RevokeByToken unconditionally marks the token revoked. Revoking a
	// missing or already-revoked token is not an error.
	RevokeByToken(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}
