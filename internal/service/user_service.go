package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"tourportal/internal/auth"
	"tourportal/internal/model"
	"tourportal/internal/repository"
	"tourportal/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs for Request validation
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=visitor business_owner"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// DTO for returning User without exposing sensitive data (e.g. password)
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// UserService defines the interface for business logic related to User
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	CreateUser(ctx context.Context, actor auth.Principal, req CreateUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error)
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, actor auth.Principal, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actor auth.Principal, id string) error
}

type userService struct {
	repo      repository.UserRepository
	pipeline  *AuditPipeline
	jwtSecret []byte
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository, pipeline *AuditPipeline, jwtSecret string) UserService {
	return &userService{repo: repo, pipeline: pipeline, jwtSecret: []byte(jwtSecret)}
}

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`)

// Helper: parse model to standard json API response
func mapToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *userService) checkUniqueness(ctx context.Context, username, email string) error {
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return apperror.Conflict("username already exists")
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return apperror.Conflict("email already exists")
	}
	return nil
}

// Register is the public self-service sign-up. It only ever grants the
// visitor or business_owner role; staff accounts are provisioned by a
// super_admin through CreateUser.
func (s *userService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	role := req.Role
	if role == "" {
		role = auth.RoleVisitor
	}

	if !emailRegex.MatchString(req.Email) {
		return nil, apperror.Validation("invalid email format")
	}
	if err := s.checkUniqueness(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hashedPassword),
		Role:     role,
	}

	err = s.pipeline.Execute(ctx, auth.Anonymous, model.AuditActionCreate, model.ModuleUser, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.repo.Create(txCtx, user); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to create user: %w", err)
		}
		return AuditSnapshot{TargetID: user.ID.String(), After: mapToResponse(user)}, nil
	})
	if err != nil {
		return nil, err
	}

	return mapToResponse(user), nil
}

// CreateUser provisions an account with any valid role, including staff.
func (s *userService) CreateUser(ctx context.Context, actor auth.Principal, req CreateUserRequest) (*UserResponse, error) {
	if !auth.ValidRole(req.Role) {
		return nil, apperror.Validation("invalid role")
	}
	if !emailRegex.MatchString(req.Email) {
		return nil, apperror.Validation("invalid email format")
	}
	if err := s.checkUniqueness(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hashedPassword),
		Role:     req.Role,
	}

	err = s.pipeline.Execute(ctx, actor, model.AuditActionCreate, model.ModuleUser, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.repo.Create(txCtx, user); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to create user: %w", err)
		}
		return AuditSnapshot{TargetID: user.ID.String(), After: mapToResponse(user)}, nil
	})
	if err != nil {
		return nil, err
	}

	return mapToResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.Validation("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.Validation("invalid email or password")
	}

	return s.issueTokens(user)
}

// RefreshToken exchanges a valid refresh token for a fresh token pair.
func (s *userService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	token, err := jwt.Parse(req.RefreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.Validation("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != "refresh" {
		return nil, apperror.Validation("invalid refresh token")
	}
	sub, _ := claims["sub"].(string)

	user, err := s.repo.GetByID(ctx, sub)
	if err != nil {
		return nil, apperror.Validation("invalid refresh token")
	}

	return s.issueTokens(user)
}

func (s *userService) issueTokens(user *model.User) (*TokenResponse, error) {
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	accessString, err := access.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID.String(),
		"typ": "refresh",
		"exp": time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	refreshString, err := refresh.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenResponse{Token: accessString, RefreshToken: refreshString}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("user not found")
	}
	return mapToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	var responses []UserResponse
	for _, u := range users {
		responses = append(responses, *mapToResponse(&u))
	}

	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor auth.Principal, id string, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	before := *mapToResponse(user)

	if req.Role != "" {
		if !auth.ValidRole(req.Role) {
			return nil, apperror.Validation("invalid role")
		}
		user.Role = req.Role
	}

	if req.Username != "" && req.Username != user.Username {
		if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
			return nil, apperror.Conflict("username already exists")
		}
		user.Username = req.Username
	}

	if req.Email != "" && req.Email != user.Email {
		if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
			return nil, apperror.Conflict("email already exists")
		}
		user.Email = req.Email
	}

	if req.Phone != "" {
		user.Phone = req.Phone
	}

	err = s.pipeline.Execute(ctx, actor, model.AuditActionUpdate, model.ModuleUser, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.repo.Update(txCtx, user); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to update user: %w", err)
		}
		return AuditSnapshot{TargetID: user.ID.String(), Before: before, After: *mapToResponse(user)}, nil
	})
	if err != nil {
		return nil, err
	}

	return mapToResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, actor auth.Principal, id string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return apperror.NotFound("user not found")
	}

	return s.pipeline.Execute(ctx, actor, model.AuditActionDelete, model.ModuleUser, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.repo.Delete(txCtx, id); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to delete user: %w", err)
		}
		return AuditSnapshot{TargetID: user.ID.String(), Before: *mapToResponse(user)}, nil
	})
}
