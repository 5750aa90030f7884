package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"storefront/libs"
	"storefront/models"
	"storefront/utils"

	"github.com/google/uuid"
)

const avatarFolder = "avatars"

type CustomerStore interface {
	Customers(ctx context.Context, filter models.UserFilter) ([]models.Customer, int, error)
}

type UserService struct {
	users     UserStore
	customers CustomerStore
	uploader  ImageUploader
}

func NewUserService(users UserStore, customers CustomerStore, uploader ImageUploader) *UserService {
	return &UserService{
		users:     users,
		customers: customers,
		uploader:  uploader,
	}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) GetAll(ctx context.Context, filter models.UserFilter) (*models.Page[models.User], error) {
	if filter.Role != "" && !models.ValidRole(filter.Role) {
		return nil, models.NewValidationError("role", "must be ADMIN or USER")
	}
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		return nil, models.NewValidationError("status", "must be Active, Inactive or Suspended")
	}
	filter.Page, filter.Limit = models.NormalizePaging(filter.Page, filter.Limit)

	users, total, err := s.users.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.Page[models.User]{Items: users, TotalItems: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *UserService) Customers(ctx context.Context, filter models.UserFilter) (*models.Page[models.Customer], error) {
	filter.Page, filter.Limit = models.NormalizePaging(filter.Page, filter.Limit)

	customers, total, err := s.customers.Customers(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.Page[models.Customer]{Items: customers, TotalItems: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != self {
		return fmt.Errorf("email %s: %w", email, models.ErrDuplicate)
	}
	return nil
}

// Create adds an account from the admin console. Such accounts skip email
// verification.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	if err := s.ensureEmailFree(ctx, email, uuid.Nil); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:        strings.TrimSpace(req.Name),
		Email:       email,
		Password:    hashedPassword,
		Mobile:      strings.TrimSpace(req.Mobile),
		Role:        req.Role,
		Status:      req.Status,
		VerifyEmail: true,
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Status == "" {
		user.Status = models.StatusActive
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update edits an account from the admin console. An admin cannot remove
// their own admin role or deactivate themselves.
func (s *UserService) Update(ctx context.Context, actorID, id uuid.UUID, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actorID == id && user.IsAdmin() {
		if req.Role != "" && req.Role != models.RoleAdmin {
			return nil, fmt.Errorf("removing your own admin role: %w", models.ErrForbidden)
		}
		if req.Status != "" && req.Status != models.StatusActive {
			return nil, fmt.Errorf("deactivating your own account: %w", models.ErrForbidden)
		}
	}

	if req.Name != "" {
		user.Name = strings.TrimSpace(req.Name)
	}
	if req.Mobile != "" {
		user.Mobile = strings.TrimSpace(req.Mobile)
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Status != "" {
		user.Status = req.Status
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return fmt.Errorf("deleting your own account: %w", models.ErrForbidden)
	}
	return s.users.Delete(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = strings.TrimSpace(req.Name)
	}
	if req.Mobile != "" {
		user.Mobile = strings.TrimSpace(req.Mobile)
	}
	if req.Email != "" {
		email := normalizeEmail(req.Email)
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, req models.ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !utils.VerifyPassword(user.Password, req.OldPassword) {
		return models.NewValidationError("old_password", "old password is incorrect")
	}
	if req.OldPassword == req.NewPassword {
		return models.NewValidationError("new_password", "new password must differ from the old one")
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, id, hashedPassword)
}

// UploadAvatar stores the new image and removes the previous one.
func (s *UserService) UploadAvatar(ctx context.Context, id uuid.UUID, file io.Reader, filename string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	image, err := s.uploader.Upload(ctx, file, filename, avatarFolder)
	if err != nil {
		return nil, err
	}

	previous := user.Avatar
	user.Avatar = image.URL
	if err := s.users.Update(ctx, user); err != nil {
		if delErr := s.uploader.Delete(ctx, image.PublicID); delErr != nil {
			log.Printf("Failed to remove orphaned avatar %s: %v", image.PublicID, delErr)
		}
		return nil, err
	}

	if publicID := libs.PublicIDFromURL(previous); publicID != "" {
		if err := s.uploader.Delete(ctx, publicID); err != nil {
			log.Printf("Failed to remove previous avatar %s: %v", publicID, err)
		}
	}
	return user, nil
}
