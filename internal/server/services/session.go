// Package services contains server-side business logic. This file implements
// SessionService, which owns the whole session lifecycle: registration,
// login, refresh-token rotation, logout, password changes, and account
// removal.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lorenzotiziani/authcore/internal/common"
	"github.com/lorenzotiziani/authcore/internal/dbx"
	"github.com/lorenzotiziani/authcore/internal/server/auth"
	"github.com/lorenzotiziani/authcore/internal/server/config"
	"github.com/lorenzotiziani/authcore/internal/server/models"
	"github.com/lorenzotiziani/authcore/internal/server/repositories/repomanager"
)

// Session bundles the sanitized account with a freshly minted token pair.
type Session struct {
	User         *models.SanitizedUser `json:"user"`
	AccessToken  string                `json:"accessToken"`
	RefreshToken string                `json:"refreshToken"`
}

// SessionService orchestrates the two stores and the two crypto utilities.
// It holds no mutable state of its own; every operation reads and writes
// through the repositories, so a revocation takes effect on the next call
// with no cache to go stale.
type SessionService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	codec                        *auth.Codec
	hasher                       *auth.Hasher
	refreshTokenValidityDuration time.Duration
}

// NewSessionService constructs a SessionService using repositories and
// server config. All secrets and lifetimes are fixed here; nothing is read
// from ambient state afterwards.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		codec: auth.NewCodec(
			[]byte(cfg.AccessTokenSecret), []byte(cfg.RefreshTokenSecret),
			cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration),
		hasher:                       auth.NewHasher(cfg.PasswordHashCost),
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a new active account. The password/confirm match is a
// domain invariant and checked here, not at the transport boundary.
// Registration does not establish a session.
func (s *SessionService) Register(ctx context.Context, email, password, confirm, firstName, lastName string) (*models.SanitizedUser, error) {
	if password != confirm {
		return nil, common.ErrPasswordsDoNotMatch
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Active:       true,
	}

	repo := s.repomanager.Users(s.db)
	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created.Sanitized(), nil
}

// Login verifies credentials and mints a fresh token pair. Unknown email,
// wrong password and deactivated account all yield the identical
// ErrorUnauthorized value.
func (s *SessionService) Login(ctx context.Context, email, password string) (*Session, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !user.Active {
		return nil, common.ErrorUnauthorized
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	var sess *Session
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var issueErr error
		sess, issueErr = s.issueSession(ctx, user, tx)
		return issueErr
	}); err != nil {
		return nil, err
	}
	return sess, nil
}

// Refresh exchanges a usable renewal token for a new token pair. The
// presented token is retired in the same transaction that persists its
// replacement, so a renewal token is single-use: of two concurrent calls
// with the same token exactly one succeeds.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	tokens := s.repomanager.RefreshTokens(s.db)

	stored, err := tokens.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if stored.Revoked {
		return nil, common.ErrorUnauthorized
	}
	if !stored.Expires.After(time.Now()) {
		// Expired rows are retired on the spot so they cannot linger.
		_ = tokens.RevokeByToken(ctx, refreshToken)
		return nil, common.ErrorUnauthorized
	}

	claims, err := s.codec.VerifyRenewal(refreshToken)
	if err != nil || claims.UserID != stored.UserID {
		// A string that reaches a stored row but fails verification is
		// forged; kill the row it collided with.
		_ = tokens.RevokeByToken(ctx, refreshToken)
		return nil, common.ErrorUnauthorized
	}

	users := s.repomanager.Users(s.db)
	user, err := users.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !user.Active {
		_ = tokens.RevokeAllForUser(ctx, user.ID)
		return nil, common.ErrorUnauthorized
	}

	var sess *Session
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tokensTx := s.repomanager.RefreshTokens(tx)
		consumed, err := tokensTx.ConsumeByToken(ctx, refreshToken)
		if err != nil {
			return fmt.Errorf("error consuming refresh token: %w", err)
		}
		if !consumed {
			// Lost the race: another call already rotated this token.
			return common.ErrorUnauthorized
		}
		var issueErr error
		sess, issueErr = s.issueSession(ctx, user, tx)
		return issueErr
	}); err != nil {
		return nil, err
	}
	return sess, nil
}

// Logout revokes the renewal token. A missing or already-revoked token is
// not an error; logging out twice succeeds twice.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	repo := s.repomanager.RefreshTokens(s.db)
	if err := repo.RevokeByToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	return nil
}

// VerifyAccessToken validates an access token purely cryptographically.
// No storage lookup happens on this path.
func (s *SessionService) VerifyAccessToken(tokenString string) (*auth.Claims, error) {
	claims, err := s.codec.VerifyAccess(tokenString)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	return claims, nil
}

// ChangePassword rotates the stored hash after proving knowledge of the
// current password, then revokes every outstanding renewal token so all
// other sessions must re-authenticate.
func (s *SessionService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	users := s.repomanager.Users(s.db)
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return common.ErrCurrentPasswordIncorrect
	}
	if s.hasher.Verify(newPassword, user.PasswordHash) {
		return common.ErrPasswordUnchanged
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, userID, hash); err != nil {
			return fmt.Errorf("error updating password: %w", err)
		}
		if err := s.repomanager.RefreshTokens(tx).RevokeAllForUser(ctx, userID); err != nil {
			return fmt.Errorf("error revoking refresh tokens: %w", err)
		}
		return nil
	})
}

// DeleteAccount removes the account and every renewal token it owns, tokens
// first, in one transaction, so no token row ever references a missing user.
func (s *SessionService) DeleteAccount(ctx context.Context, userID string) error {
	users := s.repomanager.Users(s.db)
	if _, err := users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).DeleteAllForUser(ctx, userID); err != nil {
			return fmt.Errorf("error deleting refresh tokens: %w", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, userID); err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		return nil
	})
}

// GetUser returns the sanitized account for the given id.
func (s *SessionService) GetUser(ctx context.Context, userID string) (*models.SanitizedUser, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user.Sanitized(), nil
}

// ListUsers returns all active accounts, credential material excluded.
func (s *SessionService) ListUsers(ctx context.Context) ([]*models.SanitizedUser, error) {
	list, err := s.repomanager.Users(s.db).ListActive(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// UpdateProfile changes the display fields of an account.
func (s *SessionService) UpdateProfile(ctx context.Context, userID, firstName, lastName string) (*models.SanitizedUser, error) {
	user, err := s.repomanager.Users(s.db).UpdateProfile(ctx, userID, firstName, lastName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user.Sanitized(), nil
}

// Deactivate flags the account inactive and revokes its renewal tokens.
// Deactivated accounts fail login and refresh until reactivated by an
// operator.
func (s *SessionService) Deactivate(ctx context.Context, userID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).SetActive(ctx, userID, false); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error deactivating user: %w", err)
		}
		if err := s.repomanager.RefreshTokens(tx).RevokeAllForUser(ctx, userID); err != nil {
			return fmt.Errorf("error revoking refresh tokens: %w", err)
		}
		return nil
	})
}

// issueSession mints the access/renewal pair and persists the renewal token.
// The repository's Create retires any prior usable token for the account, so
// running this inside a transaction keeps the single-active-session
// transition atomic.
func (s *SessionService) issueSession(ctx context.Context, user *models.User, db dbx.DBTX) (*Session, error) {
	access, err := s.codec.IssueAccess(user.ID, user.Email)
	if err != nil {
		return nil, common.ErrorInternal
	}
	renewal, err := s.codec.IssueRenewal(user.ID, user.Email)
	if err != nil {
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.RefreshTokens(db)
	if _, err := repo.Create(ctx, user.ID, renewal, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}

	return &Session{User: user.Sanitized(), AccessToken: access, RefreshToken: renewal}, nil
}
