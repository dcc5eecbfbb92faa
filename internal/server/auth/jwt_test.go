package auth

import (
	"testing"
	"time"

	"github.com/lorenzotiziani/authcore/internal/common"
)

func newTestCodec() *Codec {
	return NewCodec([]byte("access-secret"), []byte("renewal-secret"), time.Hour, 2*time.Hour)
}

func TestIssueAndVerifyAccess_RoundTrip(t *testing.T) {
	t.Parallel()

	c := newTestCodec()

	tok, err := c.IssueAccess("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	claims, err := c.VerifyAccess(tok)
	if err != nil {
		t.Fatalf("VerifyAccess error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("userID mismatch: got %q want %q", claims.UserID, "user-123")
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("email mismatch: got %q want %q", claims.Email, "alice@example.com")
	}
}

func TestIssueAndVerifyRenewal_RoundTrip(t *testing.T) {
	t.Parallel()

	c := newTestCodec()

	tok, err := c.IssueRenewal("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueRenewal error: %v", err)
	}

	claims, err := c.VerifyRenewal(tok)
	if err != nil {
		t.Fatalf("VerifyRenewal error: %v", err)
	}
	if claims.UserID != "user-123" || claims.Email != "alice@example.com" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestVerify_CrossSecretRejected(t *testing.T) {
	t.Parallel()

	c := newTestCodec()

	access, err := c.IssueAccess("u1", "a@b.c")
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	renewal, err := c.IssueRenewal("u1", "a@b.c")
	if err != nil {
		t.Fatalf("IssueRenewal error: %v", err)
	}

	if _, err := c.VerifyRenewal(access); err != common.ErrInvalidToken {
		t.Fatalf("access token accepted as renewal: %v", err)
	}
	if _, err := c.VerifyAccess(renewal); err != common.ErrInvalidToken {
		t.Fatalf("renewal token accepted as access: %v", err)
	}
}

func TestVerifyAccess_Expired(t *testing.T) {
	t.Parallel()

	c := NewCodec([]byte("k1"), []byte("k2"), -1*time.Second, -1*time.Second)

	tok, err := c.IssueAccess("u1", "a@b.c")
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	if _, err := c.VerifyAccess(tok); err != common.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyAccess_WrongSecret(t *testing.T) {
	t.Parallel()

	c := newTestCodec()
	other := NewCodec([]byte("different"), []byte("different2"), time.Hour, time.Hour)

	tok, err := c.IssueAccess("u2", "b@c.d")
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	if _, err := other.VerifyAccess(tok); err != common.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyAccess_MalformedString(t *testing.T) {
	t.Parallel()

	c := newTestCodec()

	if _, err := c.VerifyAccess("not.a.jwt"); err != common.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}
