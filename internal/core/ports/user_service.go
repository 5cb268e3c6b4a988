package ports

import (
	"context"

	"github.com/usermgmt/user-api/internal/core/domain"
)

// RegisterInput is the validated payload for account creation. Role may be
// empty, in which case the service defaults it to domain.RoleUser.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// ListInput carries the raw listing parameters as they arrive from the
// transport layer. Sort is the `field:asc|desc` token; Fields are the
// requested projection names, still unvalidated.
type ListInput struct {
	Page    int
	PerPage int
	Sort    string
	Fields  []string
}

// UserService orchestrates the user management use cases. Every returned
// user is redacted: the password hash never leaves the service.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login verifies credentials and issues a token. Unknown email and wrong
	// password both surface as domain.ErrInvalidCredentials so accounts
	// cannot be enumerated.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	List(ctx context.Context, in ListInput) (*UserPage, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
