package ports

import "github.com/usermgmt/user-api/internal/core/domain"

// TokenManager signs and verifies the compact claim set (subject id + role)
// used for request authentication. Tokens are self-contained; validity is
// determined solely by signature and expiry, there is no revocation.
type TokenManager interface {
	Issue(userID string, role domain.Role) (string, error)
	// Verify returns the embedded identity, or domain.ErrInvalidToken when
	// the token is malformed, tampered with, or expired.
	Verify(token string) (*domain.Identity, error)
}
