package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/usermgmt/user-api/internal/core/domain"
	"github.com/usermgmt/user-api/internal/core/ports"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// UserService implements the user management use cases on top of the record
// store, the password hasher, and the token manager.
type UserService struct {
	repo   ports.UserRepository
	hasher PasswordHasher
	tokens ports.TokenManager
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher PasswordHasher, tokens ports.TokenManager, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, tokens: tokens, logger: logger}
}

// Register hashes the password and stores a new record. The caller-supplied
// role is honored when present; registration does not restrict elevation to
// admins (matching the reference behavior).
func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.Validation(fmt.Sprintf("role must be %q or %q", domain.RoleUser, domain.RoleAdmin))
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Insert(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created.Redacted(), nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password both collapse into ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, user.Redacted(), nil
}

// List parses and validates the raw listing parameters, delegates to the
// store, and redacts every item.
func (s *UserService) List(ctx context.Context, in ports.ListInput) (*ports.UserPage, error) {
	q, err := buildListQuery(in)
	if err != nil {
		return nil, err
	}

	page, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	for i := range page.Items {
		page.Items[i].PasswordHash = ""
	}
	page.Fields = q.Fields
	return page, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Redacted(), nil
}

// Update applies a partial update. The patch carries no password field, so
// the stored hash survives any update untouched.
func (s *UserService) Update(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, domain.Validation(fmt.Sprintf("role must be %q or %q", domain.RoleUser, domain.RoleAdmin))
	}

	user, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id).Msg("user updated")
	return user.Redacted(), nil
}

// Delete removes the record permanently. There is no tombstone.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// buildListQuery enforces paging bounds and validates the sort token and
// projection fields against the known record fields, so no caller-supplied
// identifier ever reaches the store query unchecked.
func buildListQuery(in ports.ListInput) (ports.ListQuery, error) {
	q := ports.ListQuery{Page: in.Page, PerPage: in.PerPage}

	if q.Page == 0 {
		q.Page = 1
	}
	if q.PerPage == 0 {
		q.PerPage = defaultPerPage
	}
	if q.Page < 1 {
		return q, domain.Validation("page must be >= 1")
	}
	if q.PerPage < 1 {
		return q, domain.Validation("per_page must be >= 1")
	}
	if q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}

	if in.Sort != "" {
		field, order, _ := strings.Cut(in.Sort, ":")
		if !domain.IsUserField(field) {
			return q, domain.Validation(fmt.Sprintf("unknown sort field %q", field))
		}
		switch order {
		case "asc":
			q.SortAsc = true
		case "", "desc":
			q.SortAsc = false
		default:
			return q, domain.Validation(fmt.Sprintf("sort order must be %q or %q", "asc", "desc"))
		}
		q.SortField = field
	}

	for _, f := range in.Fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if !domain.IsUserField(f) {
			return q, domain.Validation(fmt.Sprintf("unknown field %q", f))
		}
		q.Fields = append(q.Fields, f)
	}

	return q, nil
}
