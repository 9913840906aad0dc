package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/websocket"
)

var (
	ErrSelfDeactivate = fmt.Errorf("%w: you cannot deactivate your own account", domain.ErrInvalidInput)
	ErrSelfDelete     = fmt.Errorf("%w: you cannot delete your own account", domain.ErrInvalidInput)
)

// UserService handles user administration
type UserService struct {
	eventSource
	userRepo    domain.UserRepository
	attachments *AttachmentService
}

// NewUserService creates a new UserService
func NewUserService(userRepo domain.UserRepository, attachments *AttachmentService) *UserService {
	return &UserService{
		userRepo:    userRepo,
		attachments: attachments,
	}
}

// CreateUserInput holds the input for creating a user
type CreateUserInput struct {
	Name           string
	Email          string
	Password       string
	Role           domain.Role
	ProfilePicture *FileUpload
}

// UpdateUserInput holds a partial user update; nil fields are left unchanged
type UpdateUserInput struct {
	Name           *string
	Email          *string
	Password       *string
	Role           *domain.Role
	ProfilePicture *FileUpload
}

func validateUserName(name string) error {
	if name == "" {
		return domain.NewFieldError("name", "Name is required")
	}
	if len(name) > domain.MaxNameLength {
		return domain.NewFieldError("name", fmt.Sprintf("Name must be at most %d characters", domain.MaxNameLength))
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return domain.NewFieldError("email", "Email is required")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.Count(email, "@") != 1 {
		return domain.NewFieldError("email", "Email is invalid")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < domain.MinPasswordLength {
		return domain.NewFieldError("password", fmt.Sprintf("Password must be at least %d characters", domain.MinPasswordLength))
	}
	return nil
}

func duplicateEmail(err error) error {
	if errors.Is(err, domain.ErrAlreadyExists) {
		return domain.NewFieldError("email", "Email is already registered")
	}
	return err
}

// CreateUser validates and stores a new active user, with an optional profile picture
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := domain.NormalizeEmail(input.Email)

	if err := validateUserName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if !input.Role.Valid() {
		return nil, domain.NewFieldError("role", "Role must be one of: staff, accountant, admin")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		IsActive:     true,
	}

	if input.ProfilePicture != nil {
		ref, err := s.attachments.SaveProfilePicture(ctx, input.ProfilePicture)
		if err != nil {
			return nil, err
		}
		user.ProfilePicture = &ref
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if user.ProfilePicture != nil {
			s.attachments.Discard(ctx, *user.ProfilePicture)
		}
		return nil, duplicateEmail(err)
	}

	log.Info().Str("user_id", created.ID).Str("role", created.Role.String()).Msg("User created")
	s.publishEvent(domain.RoleAdmin, websocket.Created(websocket.EntityTypeUser, created))

	return created, nil
}

// GetUser returns an active user
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.userRepo.GetActiveByID(ctx, id)
}

// ListUsers returns all active users
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.ListActive(ctx)
}

// UpdateUser applies a partial update to an active user. A new profile picture
// replaces the old one only after the record update succeeds.
func (s *UserService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	user, err := s.userRepo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := validateUserName(name); err != nil {
			return nil, err
		}
		user.Name = name
	}
	if input.Email != nil {
		email := domain.NormalizeEmail(*input.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, domain.NewFieldError("role", "Role must be one of: staff, accountant, admin")
		}
		user.Role = *input.Role
	}
	if input.Password != nil && *input.Password != "" {
		if err := validatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	var oldPicture, newPicture string
	if user.ProfilePicture != nil {
		oldPicture = *user.ProfilePicture
	}
	if input.ProfilePicture != nil {
		newPicture, err = s.attachments.SaveProfilePicture(ctx, input.ProfilePicture)
		if err != nil {
			return nil, err
		}
		user.ProfilePicture = &newPicture
	}

	updated, err := s.userRepo.Update(ctx, user)
	if err != nil {
		s.attachments.Discard(ctx, newPicture)
		return nil, duplicateEmail(err)
	}
	if newPicture != "" && oldPicture != "" {
		s.attachments.Discard(ctx, oldPicture)
	}

	log.Info().Str("user_id", updated.ID).Msg("User updated")
	s.publishEvent(domain.RoleAdmin, websocket.Updated(websocket.EntityTypeUser, updated))

	return updated, nil
}

// DeactivateUser soft-deletes a user. Deactivating an already inactive user returns ErrNotFound.
func (s *UserService) DeactivateUser(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrSelfDeactivate
	}

	if _, err := s.userRepo.GetActiveByID(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.SetActive(ctx, id, false); err != nil {
		return err
	}

	log.Info().Str("user_id", id).Str("actor_id", actorID).Msg("User deactivated")
	s.publishEvent(domain.RoleAdmin, websocket.NewEvent(websocket.EventTypeDeactivated, websocket.EntityTypeUser, websocket.DeletedPayload{ID: id}))
	return nil
}

// ReactivateUser restores a soft-deleted user
func (s *UserService) ReactivateUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		if err := s.userRepo.SetActive(ctx, id, true); err != nil {
			return nil, err
		}
		user.IsActive = true
		log.Info().Str("user_id", id).Msg("User reactivated")
	}

	s.publishEvent(domain.RoleAdmin, websocket.NewEvent(websocket.EventTypeReactivated, websocket.EntityTypeUser, user))
	return user, nil
}

// DeleteUser permanently removes a user and their profile picture
func (s *UserService) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrSelfDelete
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	if user.ProfilePicture != nil {
		s.attachments.Discard(ctx, *user.ProfilePicture)
	}

	log.Info().Str("user_id", id).Str("actor_id", actorID).Msg("User deleted")
	s.publishEvent(domain.RoleAdmin, websocket.Deleted(websocket.EntityTypeUser, id))
	return nil
}

// EnsureAdmin creates the bootstrap admin when the user store is empty.
// It is a no-op when email is blank or any user already exists.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" {
		return nil
	}

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	if name == "" {
		name = "Administrator"
	}
	admin, err := s.CreateUser(ctx, CreateUserInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	log.Info().Str("user_id", admin.ID).Str("email", admin.Email).Msg("Bootstrap admin created")
	return nil
}
