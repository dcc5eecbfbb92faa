package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lorenzotiziani/authcore/internal/common"
	"github.com/lorenzotiziani/authcore/internal/dbx"
	"github.com/lorenzotiziani/authcore/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) (*models.RefreshToken, error) {
	// Retire whatever is still usable before inserting, so the account never
	// observably holds two active sessions.
	revoke :=
		`UPDATE refresh_tokens SET revoked = TRUE
		 WHERE user_id = $1 AND revoked = FALSE
		 `

	if _, err := r.db.ExecContext(ctx, revoke, userID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	insert :=
		`INSERT INTO refresh_tokens (id, user_id, token, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	row := &models.RefreshToken{
		ID:      uuid.NewString(),
		UserID:  userID,
		Token:   token,
		Expires: time.Now().Add(validity),
	}
	err := r.db.QueryRowContext(ctx, insert, row.ID, row.UserID, row.Token, row.Expires).
		Scan(&row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return row, nil
}

const tokenColumns = `id, user_id, token, expires_at, revoked, created_at`

func scanToken(row *sql.Row) (*models.RefreshToken, error) {
	t := &models.RefreshToken{}
	err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.Expires, &t.Revoked, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM refresh_tokens WHERE token = $1`
	return scanToken(r.db.QueryRowContext(ctx, query, token))
}

func (r *PostgresRepository) FindUsableByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	query :=
		`SELECT ` + tokenColumns + ` FROM refresh_tokens
		 WHERE token = $1 AND revoked = FALSE AND expires_at > now()
		 `
	return scanToken(r.db.QueryRowContext(ctx, query, token))
}

func (r *PostgresRepository) ConsumeByToken(ctx context.Context, token string) (bool, error) {
	// Conditional update doubles as the compare-and-swap: of any number of
	// concurrent consumers exactly one sees rows affected = 1.
	query :=
		`UPDATE refresh_tokens SET revoked = TRUE
		 WHERE token = $1 AND revoked = FALSE AND expires_at > now()
		 `

	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected == 1, nil
}

func (r *PostgresRepository) RevokeByToken(ctx context.Context, token string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`

	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	query :=
		`UPDATE refresh_tokens SET revoked = TRUE
		 WHERE user_id = $1 AND revoked = FALSE
		 `

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
