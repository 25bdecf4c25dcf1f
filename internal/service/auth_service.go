package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parkwatch/internal/domain"
	"parkwatch/internal/repository"
	"parkwatch/internal/store"

	"database/sql"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService registers accounts and manages login sessions. Passwords are
// bcrypt-hashed; nothing ever stores or compares plaintext.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error
	GetProfile(ctx context.Context, userID string) (*UserDTO, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) error
}

type authService struct {
	usersRepo    repository.UsersRepository
	vehiclesRepo repository.VehiclesRepository
	sessions     store.SessionStore
	logger       *zap.Logger
}

func NewAuthService(usersRepo repository.UsersRepository, vehiclesRepo repository.VehiclesRepository, sessions store.SessionStore, logger *zap.Logger) AuthService {
	return &authService{
		usersRepo:    usersRepo,
		vehiclesRepo: vehiclesRepo,
		sessions:     sessions,
		logger:       logger,
	}
}

// VehicleRegistration optionally registers a vehicle at signup.
type VehicleRegistration struct {
	Province     string
	LicensePlate string
	LotID        string
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	Name            string
	Phone           string
	Password        string
	Role            string
	UserType        string
	UnitNumber      string // residents
	HostInformation string // visitors
	Vehicle         *VehicleRegistration
}

// RegisterResponse returns the new account id.
type RegisterResponse struct {
	UserID string
}

// LoginRequest authenticates by phone.
type LoginRequest struct {
	Phone    string
	Password string
}

// LoginResponse returns the session token and the account basics.
type LoginResponse struct {
	Token  string
	UserID string
	Name   string
	Role   string
}

// UpdateProfileRequest updates the mutable account fields. nil means
// "leave as is".
type UpdateProfileRequest struct {
	UserID   string
	Name     *string
	Phone    *string
	Password *string
}

// UserDTO is the wire shape of an account. It never carries the password
// hash.
type UserDTO struct {
	UserID          string `json:"userId"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Role            string `json:"role"`
	UserType        string `json:"userType,omitempty"`
	UnitNumber      string `json:"unitNumber,omitempty"`
	HostInformation string `json:"hostInformation,omitempty"`
	CreatedAt       string `json:"createdAt"`
}

func userToDTO(u *domain.User) *UserDTO {
	dto := &UserDTO{
		UserID:    u.UserID,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if u.UserType.Valid {
		dto.UserType = u.UserType.String
	}
	if u.UnitNumber.Valid {
		dto.UnitNumber = u.UnitNumber.String
	}
	if u.HostInformation.Valid {
		dto.HostInformation = u.HostInformation.String
	}
	return dto
}

func validRole(role string) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleResident, domain.RoleVisitor, domain.RoleUser:
		return true
	}
	return false
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if req.Name == "" || req.Phone == "" {
		return nil, fmt.Errorf("name and phone are required: %w", domain.ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters: %w", domain.ErrValidation)
	}
	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !validRole(role) {
		return nil, fmt.Errorf("invalid role %q: %w", req.Role, domain.ErrValidation)
	}

	if _, err := s.usersRepo.GetUserByPhone(ctx, req.Phone); err == nil {
		return nil, fmt.Errorf("phone already registered: %w", domain.ErrValidation)
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Error("phone lookup failed", zap.Error(err))
		return nil, fmt.Errorf("failed to check phone: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         req.Name,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         role,
	}
	if req.UserType != "" {
		user.UserType = sql.NullString{String: req.UserType, Valid: true}
	}
	if req.UnitNumber != "" {
		user.UnitNumber = sql.NullString{String: req.UnitNumber, Valid: true}
	}
	if req.HostInformation != "" {
		user.HostInformation = sql.NullString{String: req.HostInformation, Valid: true}
	}

	userID, err := s.usersRepo.CreateUser(ctx, user)
	if err != nil {
		s.logger.Error("Register failed", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if req.Vehicle != nil {
		v := &domain.Vehicle{
			Province:     domain.NormalizePlate(req.Vehicle.Province),
			LicensePlate: domain.NormalizePlate(req.Vehicle.LicensePlate),
			UserID:       userID,
		}
		if req.Vehicle.LotID != "" {
			v.LotID = sql.NullString{String: req.Vehicle.LotID, Valid: true}
		}
		if _, err := s.vehiclesRepo.CreateVehicle(ctx, v); err != nil {
			// Account exists either way; the vehicle can be added later.
			s.logger.Warn("vehicle registration failed", zap.Error(err))
		}
	}

	return &RegisterResponse{UserID: userID}, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Phone == "" || req.Password == "" {
		return nil, fmt.Errorf("phone and password are required: %w", domain.ErrValidation)
	}

	user, err := s.usersRepo.GetUserByPhone(ctx, req.Phone)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("invalid phone or password: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		s.logger.Error("Login lookup failed", zap.Error(err))
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)) != nil {
		return nil, fmt.Errorf("invalid phone or password: %w", domain.ErrUnauthorized)
	}

	token, err := s.sessions.Set(ctx, store.Session{UserID: user.UserID, Role: user.Role})
	if err != nil {
		s.logger.Error("session create failed", zap.Error(err))
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &LoginResponse{
		Token:  token,
		UserID: user.UserID,
		Name:   user.Name,
		Role:   user.Role,
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Clear(ctx, token)
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*UserDTO, error) {
	user, err := s.usersRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return userToDTO(user), nil
}

func (s *authService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) error {
	if req.UserID == "" {
		return fmt.Errorf("user_id is required: %w", domain.ErrValidation)
	}
	if req.Name != nil && *req.Name == "" {
		return fmt.Errorf("name cannot be empty: %w", domain.ErrValidation)
	}
	if req.Phone != nil && *req.Phone == "" {
		return fmt.Errorf("phone cannot be empty: %w", domain.ErrValidation)
	}

	var hash []byte
	if req.Password != nil {
		if len(*req.Password) < 6 {
			return fmt.Errorf("password must be at least 6 characters: %w", domain.ErrValidation)
		}
		h, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		hash = h
	}

	if req.Phone != nil {
		if existing, err := s.usersRepo.GetUserByPhone(ctx, *req.Phone); err == nil && existing.UserID != req.UserID {
			return fmt.Errorf("phone already registered: %w", domain.ErrValidation)
		}
	}

	if err := s.usersRepo.UpdateProfile(ctx, req.UserID, req.Name, req.Phone, hash); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Error("UpdateProfile failed", zap.Error(err))
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
