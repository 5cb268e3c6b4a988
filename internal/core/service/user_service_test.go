package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/usermgmt/user-api/internal/core/domain"
	"github.com/usermgmt/user-api/internal/core/ports"
)

type stubUserRepo struct {
	users    map[string]*domain.User
	nextID   int
	lastList ports.ListQuery
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = string(rune('a' + r.nextID - 1))
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, q ports.ListQuery) (*ports.UserPage, error) {
	r.lastList = q
	page := &ports.UserPage{Total: int64(len(r.users)), Page: q.Page, PerPage: q.PerPage}
	for _, u := range r.users {
		page.Items = append(page.Items, *cloneUser(u))
	}
	return page, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	u.UpdatedAt = u.UpdatedAt.Add(time.Second)
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func newTestService(repo ports.UserRepository) *UserService {
	hasher := NewPasswordHasher(bcrypt.MinCost)
	tokens := NewJWTManager("secret", time.Hour)
	return NewUserService(repo, hasher, tokens, zerolog.Nop())
}

func TestUserService_Register_HashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "pass123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash != "" {
		t.Fatalf("expected redacted password hash in result")
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role %q, got %q", domain.RoleUser, user.Role)
	}

	stored, err := repo.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("stored user not retrievable by email: %v", err)
	}
	if stored.PasswordHash == "pass123" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestUserService_Register_ExplicitRole(t *testing.T) {
	svc := newTestService(newStubUserRepo())

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "root", Email: "root@example.com", Password: "pass123", Role: domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", user.Role)
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	svc := newTestService(newStubUserRepo())

	in := ports.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "pass123"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	in.Username = "robert"
	if _, err := svc.Register(context.Background(), in); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	created, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "carol", Email: "carol@example.com", Password: "s3cret", Role: domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user.PasswordHash != "" {
		t.Fatalf("login response carries the password hash")
	}

	identity, err := NewJWTManager("secret", time.Hour).Verify(token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if identity.UserID != created.ID || identity.Role != domain.RoleAdmin {
		t.Fatalf("claims mismatch: %+v", identity)
	}
}

func TestUserService_Login_IndistinguishableFailures(t *testing.T) {
	svc := newTestService(newStubUserRepo())

	_, _ = svc.Register(context.Background(), ports.RegisterInput{
		Username: "dave", Email: "dave@example.com", Password: "goodpass",
	})

	_, _, badPass := svc.Login(context.Background(), "dave@example.com", "badpass")
	_, _, noUser := svc.Login(context.Background(), "ghost@example.com", "whatever")

	if badPass != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", badPass)
	}
	if noUser != domain.ErrInvalidCredentials {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", noUser)
	}
	if badPass.Error() != noUser.Error() {
		t.Fatalf("failure modes are distinguishable: %q vs %q", badPass, noUser)
	}
}

func TestUserService_List_Defaults(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if _, err := svc.List(context.Background(), ports.ListInput{}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastList.Page != 1 || repo.lastList.PerPage != defaultPerPage {
		t.Fatalf("expected defaults page=1 per_page=%d, got %+v", defaultPerPage, repo.lastList)
	}
	if repo.lastList.SortField != "" {
		t.Fatalf("expected store-default sort, got %q", repo.lastList.SortField)
	}
}

func TestUserService_List_OffsetArithmetic(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	// Page 2 with per_page=10 must skip exactly the first 10 rows.
	if _, err := svc.List(context.Background(), ports.ListInput{Page: 2, PerPage: 10}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastList.Page != 2 || repo.lastList.PerPage != 10 {
		t.Fatalf("paging not forwarded: %+v", repo.lastList)
	}
	if got := repo.lastList.Offset(); got != 10 {
		t.Fatalf("expected offset 10 for page 2, got %d", got)
	}

	if _, err := svc.List(context.Background(), ports.ListInput{Page: 1, PerPage: 10}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if got := repo.lastList.Offset(); got != 0 {
		t.Fatalf("expected offset 0 for page 1, got %d", got)
	}

	if _, err := svc.List(context.Background(), ports.ListInput{Page: 5, PerPage: 7}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if got := repo.lastList.Offset(); got != 28 {
		t.Fatalf("expected offset 28 for page 5 per_page 7, got %d", got)
	}
}

func TestUserService_List_TotalUnaffectedByProjectionAndSort(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if _, err := svc.Register(context.Background(), ports.RegisterInput{
			Username: "user-" + email, Email: email, Password: "pass123",
		}); err != nil {
			t.Fatalf("register %s failed: %v", email, err)
		}
	}

	plain, err := svc.List(context.Background(), ports.ListInput{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	projected, err := svc.List(context.Background(), ports.ListInput{
		Sort:   "email:asc",
		Fields: []string{"id", "email"},
	})
	if err != nil {
		t.Fatalf("projected list failed: %v", err)
	}

	if plain.Total != 3 || projected.Total != 3 {
		t.Fatalf("total must be the full row count regardless of projection/sort: plain=%d projected=%d", plain.Total, projected.Total)
	}
}

func TestUserService_List_Bounds(t *testing.T) {
	svc := newTestService(newStubUserRepo())

	if _, err := svc.List(context.Background(), ports.ListInput{Page: -1}); err == nil {
		t.Fatalf("expected validation error for page < 1")
	}
	if _, err := svc.List(context.Background(), ports.ListInput{PerPage: -5}); err == nil {
		t.Fatalf("expected validation error for per_page < 1")
	}
}

func TestUserService_List_SortToken(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if _, err := svc.List(context.Background(), ports.ListInput{Sort: "username:asc"}); err != nil {
		t.Fatalf("valid sort rejected: %v", err)
	}
	if repo.lastList.SortField != "username" || !repo.lastList.SortAsc {
		t.Fatalf("sort token not parsed: %+v", repo.lastList)
	}

	if _, err := svc.List(context.Background(), ports.ListInput{Sort: "email:desc"}); err != nil {
		t.Fatalf("valid sort rejected: %v", err)
	}
	if repo.lastList.SortField != "email" || repo.lastList.SortAsc {
		t.Fatalf("descending sort not parsed: %+v", repo.lastList)
	}

	if _, err := svc.List(context.Background(), ports.ListInput{Sort: "password_hash:asc"}); err == nil {
		t.Fatalf("expected rejection of unknown sort field")
	}
	if _, err := svc.List(context.Background(), ports.ListInput{Sort: "username:sideways"}); err == nil {
		t.Fatalf("expected rejection of unknown sort order")
	}
}

func TestUserService_List_ProjectionValidation(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if _, err := svc.List(context.Background(), ports.ListInput{Fields: []string{"id", "email"}}); err != nil {
		t.Fatalf("valid projection rejected: %v", err)
	}
	if len(repo.lastList.Fields) != 2 {
		t.Fatalf("projection not forwarded: %+v", repo.lastList.Fields)
	}

	if _, err := svc.List(context.Background(), ports.ListInput{Fields: []string{"password_hash"}}); err == nil {
		t.Fatalf("expected rejection of credential field projection")
	}
	if _, err := svc.List(context.Background(), ports.ListInput{Fields: []string{"$where"}}); err == nil {
		t.Fatalf("expected rejection of arbitrary identifier")
	}
}

func TestUserService_Update_PreservesHash(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	created, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "erin", Email: "erin@example.com", Password: "pass123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	before, _ := repo.FindByID(context.Background(), created.ID)

	username := "erin2"
	updated, err := svc.Update(context.Background(), created.ID, ports.UserPatch{Username: &username})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Username != "erin2" {
		t.Fatalf("username not updated: %q", updated.Username)
	}
	if updated.PasswordHash != "" {
		t.Fatalf("update response carries the password hash")
	}

	after, _ := repo.FindByID(context.Background(), created.ID)
	if after.PasswordHash != before.PasswordHash {
		t.Fatalf("password hash changed by a non-password update")
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Fatalf("updated_at not advanced")
	}
}

func TestUserService_Update_InvalidRole(t *testing.T) {
	svc := newTestService(newStubUserRepo())

	bad := domain.Role("superuser")
	if _, err := svc.Update(context.Background(), "a", ports.UserPatch{Role: &bad}); err == nil {
		t.Fatalf("expected validation error for unknown role")
	}
}

func TestUserService_Delete_Twice(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	created, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "frank", Email: "frank@example.com", Password: "pass123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); err != domain.ErrUserNotFound {
		t.Fatalf("second delete: expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc := newTestService(newStubUserRepo())

	if _, err := svc.GetByID(context.Background(), "missing"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
