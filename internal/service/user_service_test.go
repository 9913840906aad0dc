package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/testutil"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/websocket"
)

// recordingPublisher captures published events
type recordingPublisher struct {
	audiences []domain.Role
	events    []websocket.Event
}

func (p *recordingPublisher) Publish(audience domain.Role, event websocket.Event) {
	p.audiences = append(p.audiences, audience)
	p.events = append(p.events, event)
}

func newTestUserService() (*UserService, *testutil.MockUserRepository, *testutil.MockFileRepository) {
	userRepo := testutil.NewMockUserRepository()
	files := testutil.NewMockFileRepository()
	return NewUserService(userRepo, NewAttachmentService(files)), userRepo, files
}

func TestCreateUser_Success(t *testing.T) {
	svc, _, files := newTestUserService()
	publisher := &recordingPublisher{}
	svc.SetEventPublisher(publisher)
	data, filename := createTestImage(64, 64, "png")

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Name:           "  Priya ",
		Email:          "Priya@Example.com",
		Password:       "secret123",
		Role:           domain.RoleAccountant,
		ProfilePicture: &FileUpload{Filename: filename, ContentType: "image/png", Data: data},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if user.Name != "Priya" || user.Email != "priya@example.com" {
		t.Errorf("expected normalized name/email, got %q %q", user.Name, user.Email)
	}
	if !user.IsActive {
		t.Error("expected new user to be active")
	}
	if user.PasswordHash == "secret123" || !CheckPassword(user.PasswordHash, "secret123") {
		t.Error("expected password to be stored hashed")
	}
	if user.ProfilePicture == nil || !files.Has(*user.ProfilePicture) {
		t.Error("expected profile picture to be stored")
	}
	if len(publisher.events) != 1 || publisher.events[0].Type != "user.created" || publisher.audiences[0] != domain.RoleAdmin {
		t.Errorf("expected one user.created event for admins, got %+v", publisher.events)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input CreateUserInput
		field string
	}{
		{"missing name", CreateUserInput{Email: "a@b.co", Password: "secret123", Role: domain.RoleStaff}, "name"},
		{"bad email", CreateUserInput{Name: "A", Email: "not-an-email", Password: "secret123", Role: domain.RoleStaff}, "email"},
		{"short password", CreateUserInput{Name: "A", Email: "a@b.co", Password: "123", Role: domain.RoleStaff}, "password"},
		{"bad role", CreateUserInput{Name: "A", Email: "a@b.co", Password: "secret123"}, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestUserService()
			_, err := svc.CreateUser(context.Background(), tt.input)

			var fieldErr *domain.FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("expected FieldError, got %v", err)
			}
			if fieldErr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, fieldErr.Field)
			}
		})
	}
}

func TestCreateUser_DuplicateEmailDiscardsPicture(t *testing.T) {
	svc, _, files := newTestUserService()
	input := CreateUserInput{Name: "A", Email: "a@b.co", Password: "secret123", Role: domain.RoleStaff}
	if _, err := svc.CreateUser(context.Background(), input); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	data, filename := createTestImage(32, 32, "jpeg")
	input.ProfilePicture = &FileUpload{Filename: filename, ContentType: "image/jpeg", Data: data}
	_, err := svc.CreateUser(context.Background(), input)

	var fieldErr *domain.FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "email" {
		t.Fatalf("expected email FieldError, got %v", err)
	}
	if files.Count() != 0 {
		t.Errorf("expected staged picture to be removed, %d files remain", files.Count())
	}
}

func TestDeactivateUser_Twice(t *testing.T) {
	svc, userRepo, _ := newTestUserService()
	admin := addTestUser(t, userRepo, "admin@example.com", "secret123", domain.RoleAdmin)
	staff := addTestUser(t, userRepo, "staff@example.com", "secret123", domain.RoleStaff)

	if err := svc.DeactivateUser(context.Background(), admin.ID, staff.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.DeactivateUser(context.Background(), admin.ID, staff.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second deactivate, got %v", err)
	}

	users, _ := svc.ListUsers(context.Background())
	if len(users) != 1 {
		t.Errorf("expected only the admin to be listed, got %d users", len(users))
	}

	reactivated, err := svc.ReactivateUser(context.Background(), staff.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !reactivated.IsActive {
		t.Error("expected user to be active again")
	}
}

func TestDeactivateUser_Self(t *testing.T) {
	svc, userRepo, _ := newTestUserService()
	admin := addTestUser(t, userRepo, "admin@example.com", "secret123", domain.RoleAdmin)

	if err := svc.DeactivateUser(context.Background(), admin.ID, admin.ID); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if err := svc.DeleteUser(context.Background(), admin.ID, admin.ID); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDeleteUser_RemovesPicture(t *testing.T) {
	svc, userRepo, files := newTestUserService()
	admin := addTestUser(t, userRepo, "admin@example.com", "secret123", domain.RoleAdmin)
	data, filename := createTestImage(32, 32, "png")
	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Name: "B", Email: "b@example.com", Password: "secret123", Role: domain.RoleStaff,
		ProfilePicture: &FileUpload{Filename: filename, ContentType: "image/png", Data: data},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := svc.DeleteUser(context.Background(), admin.ID, user.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if files.Count() != 0 {
		t.Errorf("expected picture to be removed, %d files remain", files.Count())
	}
	if _, err := userRepo.GetByID(context.Background(), user.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected user to be gone, got %v", err)
	}
}

func TestUpdateUser_ReplacesPicture(t *testing.T) {
	svc, userRepo, files := newTestUserService()
	data, filename := createTestImage(32, 32, "png")
	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Name: "B", Email: "b@example.com", Password: "secret123", Role: domain.RoleStaff,
		ProfilePicture: &FileUpload{Filename: filename, ContentType: "image/png", Data: data},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	oldPicture := *user.ProfilePicture

	// Failed update keeps the old picture and drops the new one
	userRepo.UpdateErr = errors.New("store down")
	_, err = svc.UpdateUser(context.Background(), user.ID, UpdateUserInput{
		ProfilePicture: &FileUpload{Filename: filename, ContentType: "image/png", Data: data},
	})
	if err == nil {
		t.Fatal("expected update error")
	}
	if files.Count() != 1 || !files.Has(oldPicture) {
		t.Fatalf("expected only the old picture to remain, got %d files", files.Count())
	}

	userRepo.UpdateErr = nil
	role := domain.RoleAdmin
	updated, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserInput{
		Role:           &role,
		ProfilePicture: &FileUpload{Filename: filename, ContentType: "image/png", Data: data},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Errorf("expected role admin, got %s", updated.Role)
	}
	if files.Has(oldPicture) || files.Count() != 1 {
		t.Errorf("expected old picture replaced, got %d files", files.Count())
	}
}

func TestEnsureAdmin(t *testing.T) {
	svc, userRepo, _ := newTestUserService()

	if err := svc.EnsureAdmin(context.Background(), "", "", ""); err != nil {
		t.Fatalf("expected no-op without email, got %v", err)
	}
	if err := svc.EnsureAdmin(context.Background(), "Owner", "owner@example.com", "secret123"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.EnsureAdmin(context.Background(), "Owner", "other@example.com", "secret123"); err != nil {
		t.Fatalf("expected no-op when users exist, got %v", err)
	}

	count, _ := userRepo.Count(context.Background())
	if count != 1 {
		t.Fatalf("expected exactly one user, got %d", count)
	}
	admin, err := userRepo.GetActiveByEmail(context.Background(), "owner@example.com")
	if err != nil {
		t.Fatalf("expected admin to exist, got %v", err)
	}
	if admin.Role != domain.RoleAdmin {
		t.Errorf("expected admin role, got %s", admin.Role)
	}
}
