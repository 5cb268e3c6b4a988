package ports

import (
	"context"

	"github.com/usermgmt/user-api/internal/core/domain"
)

// ListQuery carries the validated paging, ordering, and projection
// parameters for a user listing. Field names are the external record field
// names; the store translates them to its own column names.
type ListQuery struct {
	Page    int
	PerPage int
	// SortField is a validated record field; empty means the store default
	// (creation time, newest first).
	SortField string
	SortAsc   bool
	// Fields, when non-empty, restricts the columns fetched and returned.
	// Every entry has already been validated against the known record fields.
	Fields []string
}

// Offset returns the row offset implied by the page and page size.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PerPage
}

// UserPage is one page of a listing plus the total row count. Total is read
// independently of the page of items, so the two may skew under concurrent
// writes; callers tolerate that eventual consistency.
type UserPage struct {
	Items   []domain.User `json:"items"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
	// Fields echoes the effective projection so the transport layer can
	// shape each item accordingly. Not serialized.
	Fields []string `json:"-"`
}

// UserPatch is a partial update. Nil pointers leave the column untouched.
// There is deliberately no password field: credentials do not travel through
// the update path.
type UserPatch struct {
	Username *string
	Email    *string
	Role     *domain.Role
}

// UserRepository is the persistence boundary for user records.
type UserRepository interface {
	// Insert stores a new record and returns it with its generated id.
	// Returns domain.ErrEmailTaken when the email is already present.
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, q ListQuery) (*UserPage, error)
	// Update applies the patch and refreshes updated_at. Returns
	// domain.ErrUserNotFound when no record matches id.
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	// Delete removes the record permanently. Returns domain.ErrUserNotFound
	// when no record matches id.
	Delete(ctx context.Context, id string) error
}
