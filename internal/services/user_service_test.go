package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"farm-backend/internal/apperr"
	"farm-backend/internal/auth"
	"farm-backend/internal/config"
	"farm-backend/internal/models"
)

type fakeUserStore struct {
	users []*models.User
}

func (f *fakeUserStore) Create(_ context.Context, u *models.User) error {
	u.ID = len(f.users) + 1
	u.IsActive = true
	f.users = append(f.users, u)
	return nil
}

func (f *fakeUserStore) Get(_ context.Context, id int) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user", id)
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user", email)
}

func (f *fakeUserStore) Count(context.Context) (int, error) { return len(f.users), nil }

func (f *fakeUserStore) List(context.Context) ([]*models.User, error) { return f.users, nil }

func (f *fakeUserStore) Update(_ context.Context, u *models.User) error {
	for i, existing := range f.users {
		if existing.ID == u.ID {
			f.users[i] = u
			return nil
		}
	}
	return apperr.NotFound("user", u.ID)
}

func (f *fakeUserStore) Delete(_ context.Context, id int) error {
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("user", id)
}

func newTestUserService() (*UserService, *fakeUserStore) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test"
	cfg.JWT.ExpirationHours = 1
	store := &fakeUserStore{}
	return NewUserService(store, auth.NewJWTManager(cfg), nil), store
}

func TestEnsureAdminCreatesOnlyOnce(t *testing.T) {
	svc, store := newTestUserService()
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "Owner", "Owner@Farm.test", "pw"); err != nil {
		t.Fatalf("EnsureAdmin() error = %v", err)
	}
	if err := svc.EnsureAdmin(ctx, "Other", "other@farm.test", "pw"); err != nil {
		t.Fatalf("EnsureAdmin() error = %v", err)
	}
	if len(store.users) != 1 {
		t.Fatalf("users = %d, want 1", len(store.users))
	}
	if store.users[0].Role != models.RoleAdmin || store.users[0].Email != "owner@farm.test" {
		t.Errorf("admin = %+v", store.users[0])
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()
	if err := svc.EnsureAdmin(ctx, "Owner", "owner@farm.test", "pw"); err != nil {
		t.Fatalf("EnsureAdmin() error = %v", err)
	}

	resp, err := svc.Login(ctx, &models.LoginRequest{Email: "owner@farm.test", Password: "pw"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.Token == "" || resp.User.Email != "owner@farm.test" {
		t.Errorf("response = %+v", resp)
	}

	tests := []struct {
		name string
		req  models.LoginRequest
		want error
	}{
		{"wrong password", models.LoginRequest{Email: "owner@farm.test", Password: "nope"}, ErrInvalidCredentials},
		{"unknown email", models.LoginRequest{Email: "ghost@farm.test", Password: "pw"}, ErrInvalidCredentials},
		{"blank", models.LoginRequest{}, apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(ctx, &tt.req); !errors.Is(err, tt.want) {
				t.Errorf("Login() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateUser(t *testing.T) {
	svc, store := newTestUserService()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, &models.CreateUserRequest{Name: "Ravi", Email: " Ravi@Farm.test ", Password: "secret1"})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.Role != models.RoleStaff || user.Email != "ravi@farm.test" || user.PasswordHash == "secret1" {
		t.Errorf("user = %+v", user)
	}

	invalid := []models.CreateUserRequest{
		{Email: "a@farm.test", Password: "secret1"},
		{Name: "A", Email: "a@farm.test", Password: "short"},
		{Name: "A", Email: "a@farm.test", Password: strings.Repeat("x", 73)},
		{Name: "A", Email: "a@farm.test", Password: "secret1", Role: "owner"},
	}
	for _, req := range invalid {
		if _, err := svc.CreateUser(ctx, &req); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("CreateUser(%+v) error = %v, want validation", req, err)
		}
	}
	if len(store.users) != 1 {
		t.Errorf("users = %d, want 1", len(store.users))
	}
}

func TestUpdateAndDeleteUserGuardSelf(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()
	if err := svc.EnsureAdmin(ctx, "Owner", "owner@farm.test", "pw"); err != nil {
		t.Fatalf("EnsureAdmin() error = %v", err)
	}
	staff, err := svc.CreateUser(ctx, &models.CreateUserRequest{Name: "Ravi", Email: "ravi@farm.test", Password: "secret1"})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	inactive := false
	if _, err := svc.UpdateUser(ctx, 1, 1, &models.UpdateUserRequest{IsActive: &inactive}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("self deactivation error = %v", err)
	}
	if _, err := svc.UpdateUser(ctx, 1, 1, &models.UpdateUserRequest{Role: models.RoleStaff}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("self demotion error = %v", err)
	}

	updated, err := svc.UpdateUser(ctx, staff.ID, 1, &models.UpdateUserRequest{IsActive: &inactive, Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}
	if updated.IsActive || updated.Role != models.RoleAdmin {
		t.Errorf("updated = %+v", updated)
	}
	if _, err := svc.Login(ctx, &models.LoginRequest{Email: "ravi@farm.test", Password: "secret1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("inactive login error = %v", err)
	}

	if err := svc.DeleteUser(ctx, 1, 1); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("self delete error = %v", err)
	}
	if err := svc.DeleteUser(ctx, staff.ID, 1); err != nil {
		t.Errorf("DeleteUser() error = %v", err)
	}
	if err := svc.DeleteUser(ctx, staff.ID, 1); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete error = %v", err)
	}
}

func TestLoginWithoutJWTIsUnavailable(t *testing.T) {
	svc := NewUserService(&fakeUserStore{}, nil, nil)
	if _, err := svc.Login(context.Background(), &models.LoginRequest{Email: "a", Password: "b"}); !errors.Is(err, apperr.ErrUnavailable) {
		t.Errorf("Login() error = %v", err)
	}
}
