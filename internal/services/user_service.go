package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"farm-backend/internal/apperr"
	"farm-backend/internal/auth"
	"farm-backend/internal/models"
)

// ErrInvalidCredentials is returned by Login for any unknown email or wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserStore is the part of *repositories.UserRepository the service uses.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id int) error
}

type UserService struct {
	Repo       UserStore
	JWTManager *auth.JWTManager
	logger     *zap.Logger
}

func NewUserService(repo UserStore, jwtManager *auth.JWTManager, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{Repo: repo, JWTManager: jwtManager, logger: logger}
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

// EnsureAdmin creates the configured administrator when no user exists yet.
// It does nothing when the table already has users or no credentials are set.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	n, err := s.Repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user := &models.User{Name: name, Email: strings.ToLower(email), PasswordHash: hash, Role: models.RoleAdmin}
	if err := s.Repo.Create(ctx, user); err != nil {
		return err
	}
	s.logger.Info("created initial administrator", zap.String("email", user.Email))
	return nil
}

// Login authenticates a user and returns a JWT token
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if s.JWTManager == nil {
		return nil, apperr.Unavailable("authentication is not configured")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	user, err := s.Repo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

func validRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleStaff
}

// CreateUser adds an account. The role defaults to staff.
func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if strings.TrimSpace(req.Name) == "" || email == "" || req.Password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}
	if err := auth.CheckPassword(req.Password); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	role := req.Role
	if role == "" {
		role = models.RoleStaff
	}
	if !validRole(role) {
		return nil, apperr.Validation("role must be %s or %s", models.RoleAdmin, models.RoleStaff)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: strings.TrimSpace(req.Name), Email: email, PasswordHash: hash, Role: role}
	if err := s.Repo.Create(ctx, user); err != nil {
		if apperr.PgCode(err) == apperr.CodeUniqueViolation {
			return nil, apperr.Validation("a user with email %s already exists", email)
		}
		return nil, err
	}
	s.logger.Info("user created", zap.Int("user_id", user.ID), zap.String("role", role))
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.Repo.List(ctx)
}

// UpdateUser applies the set fields. actorID may not deactivate or demote
// their own account.
func (s *UserService) UpdateUser(ctx context.Context, id, actorID int, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if req.Role != "" {
		if !validRole(req.Role) {
			return nil, apperr.Validation("role must be %s or %s", models.RoleAdmin, models.RoleStaff)
		}
		if id == actorID && req.Role != user.Role {
			return nil, apperr.Validation("you cannot change your own role")
		}
		user.Role = req.Role
	}
	if req.IsActive != nil {
		if id == actorID && !*req.IsActive {
			return nil, apperr.Validation("you cannot deactivate your own account")
		}
		user.IsActive = *req.IsActive
	}
	if req.Password != "" {
		if err := auth.CheckPassword(req.Password); err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
		if user.PasswordHash, err = auth.HashPassword(req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id, actorID int) error {
	if id == actorID {
		return apperr.Validation("you cannot delete your own account")
	}
	return s.Repo.Delete(ctx, id)
}
