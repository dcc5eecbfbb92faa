// Package auth holds the two stateless security utilities: the JWT codec for
// access and renewal tokens, and the bcrypt password hasher.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lorenzotiziani/authcore/internal/common"
)

// Claims carries the identity embedded in both token kinds, plus the
// standard issued-at/expiry claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Email  string `json:"email"`
}

// Codec signs and verifies access and renewal tokens. The two kinds use
// independent secrets and lifetimes, so leaking one secret does not
// compromise the other. All fields are fixed at construction.
type Codec struct {
	accessSecret    []byte
	renewalSecret   []byte
	accessValidity  time.Duration
	renewalValidity time.Duration
}

func NewCodec(accessSecret, renewalSecret []byte, accessValidity, renewalValidity time.Duration) *Codec {
	return &Codec{
		accessSecret:    accessSecret,
		renewalSecret:   renewalSecret,
		accessValidity:  accessValidity,
		renewalValidity: renewalValidity,
	}
}

// IssueAccess mints a short-lived access token for the given identity.
func (c *Codec) IssueAccess(userID, email string) (string, error) {
	return sign(userID, email, c.accessSecret, c.accessValidity)
}

// IssueRenewal mints a long-lived renewal token for the given identity.
func (c *Codec) IssueRenewal(userID, email string) (string, error) {
	return sign(userID, email, c.renewalSecret, c.renewalValidity)
}

// VerifyAccess checks signature and expiry of an access token and returns its
// claims. Any failure yields common.ErrInvalidToken.
func (c *Codec) VerifyAccess(tokenString string) (*Claims, error) {
	return verify(tokenString, c.accessSecret)
}

// VerifyRenewal checks signature and expiry of a renewal token and returns
// its claims. Any failure yields common.ErrInvalidToken.
func (c *Codec) VerifyRenewal(tokenString string) (*Claims, error) {
	return verify(tokenString, c.renewalSecret)
}

func sign(userID, email string, secret []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID: userID,
		Email:  email,
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// verify fails closed: malformed structure, wrong signing method, bad
// signature and expiry all collapse into common.ErrInvalidToken.
func verify(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
