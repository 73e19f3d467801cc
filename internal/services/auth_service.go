package services

import (
	"context"
	"errors"

	"github.com/spinquest/spinwheel-backend/internal/config"
	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/repositories"
	"github.com/spinquest/spinwheel-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// ErrInvalidCredentials is deliberately indistinguishable between an unknown
// username and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService defines the interface for operator authentication and account
// management
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	CreateAdmin(ctx context.Context, req *models.CreateAdminRequest, createdBy primitive.ObjectID) (*models.AdminUser, error)
	GetAdmins(ctx context.Context) ([]*models.AdminUser, error)
	DeleteAdmin(ctx context.Context, id primitive.ObjectID) error
	EnsureSuperadmin(ctx context.Context) error
}

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl implements AuthService
type AuthServiceImpl struct {
	adminRepo repositories.AdminUserRepository
	cfg       *config.Config
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(adminRepo repositories.AdminUserRepository, cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{
		adminRepo: adminRepo,
		cfg:       cfg,
	}
}

// Login verifies credentials and returns a signed JWT
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.adminRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Username, user.Role, s.cfg)
	if err != nil {
		return nil, err
	}

	slog.Info("operator logged in", "username", user.Username, "role", user.Role)
	return &models.LoginResponse{
		Token: token,
		User:  user,
	}, nil
}

// CreateAdmin creates an admin account; callers are gated to superadmin at
// the route level
func (s *AuthServiceImpl) CreateAdmin(ctx context.Context, req *models.CreateAdminRequest, createdBy primitive.ObjectID) (*models.AdminUser, error) {
	_, err := s.adminRepo.FindByUsername(ctx, req.Username)
	if err == nil {
		return nil, errors.New("username already exists")
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &models.AdminUser{
		Username:  req.Username,
		Password:  string(hashed),
		Role:      models.RoleAdmin,
		CreatedBy: createdBy,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	slog.Info("admin created", "username", admin.Username, "createdBy", createdBy.Hex())
	admin.Password = ""
	return admin, nil
}

// GetAdmins lists admin accounts
func (s *AuthServiceImpl) GetAdmins(ctx context.Context) ([]*models.AdminUser, error) {
	admins, err := s.adminRepo.FindByRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	for _, a := range admins {
		a.Password = ""
	}
	return admins, nil
}

// DeleteAdmin removes an admin account; superadmins cannot be deleted this
// way
func (s *AuthServiceImpl) DeleteAdmin(ctx context.Context, id primitive.ObjectID) error {
	return s.adminRepo.DeleteAdmin(ctx, id)
}

// EnsureSuperadmin seeds the initial superadmin account on startup when none
// exists
func (s *AuthServiceImpl) EnsureSuperadmin(ctx context.Context) error {
	count, err := s.adminRepo.CountByRole(ctx, models.RoleSuperadmin)
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Info("superadmin exists")
		return nil
	}

	if s.cfg.Superadmin.Password == "" {
		return errors.New("no superadmin exists and Superadmin.Password is not configured")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(s.cfg.Superadmin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	superadmin := &models.AdminUser{
		Username: s.cfg.Superadmin.Username,
		Password: string(hashed),
		Role:     models.RoleSuperadmin,
	}
	if err := s.adminRepo.Create(ctx, superadmin); err != nil {
		return err
	}

	slog.Info("superadmin created", "username", superadmin.Username)
	return nil
}
