package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"catena/internal/caching"
	"catena/internal/common"
	"catena/internal/models"
	"catena/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var contactNumberPattern = regexp.MustCompile(`^[0-9]{10}$`)

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, models.Pagination, error)
	Update(ctx context.Context, id uuid.UUID, upd models.UserUpdate, actorID uuid.UUID, actorRole string) (*models.User, error)
	ResetPassword(ctx context.Context, id uuid.UUID, newPassword string, actorID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error

	UploadProfilePic(ctx context.Context, userID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (string, error)
	ProfilePicURL(ctx context.Context, userID uuid.UUID) (string, error)
	DeleteProfilePic(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	userRepo repositories.UserRepository
	cache    caching.CacheService
	storage  StorageService
	cleaner  *BlobCleaner
	log      *zap.Logger
}

func NewUserService(userRepo repositories.UserRepository, cache caching.CacheService, storage StorageService, cleaner *BlobCleaner, log *zap.Logger) UserService {
	return &userService{userRepo: userRepo, cache: cache, storage: storage, cleaner: cleaner, log: log}
}

// forgetExternalUsers drops the cached vendor list after a user write. A failed
// delete only leaves the list stale until its TTL runs out.
func (s *userService) forgetExternalUsers(ctx context.Context) {
	if err := s.cache.Delete(ctx, caching.ExternalUsersKey); err != nil {
		s.log.Warn("failed to invalidate external users cache", zap.Error(err))
	}
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if !models.ValidDesignation(req.UserType, req.Designation) {
		return nil, common.FieldError("designation", fmt.Sprintf("is not valid for user type %q", req.UserType))
	}
	if req.DOB != nil && !req.DOB.Before(time.Now()) {
		return nil, common.FieldError("dob", "must be in the past")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         req.Role,
		UserType:     req.UserType,
		Designation:  req.Designation,
		Status:       models.UserStatusActive,
		DOB:          req.DOB,
		Location:     req.Location,
		CreatedAt:    time.Now().UTC(),
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Location.Country == "" {
		user.Location.Country = "India"
	}
	if req.ContactNumber != "" {
		contact := req.ContactNumber
		user.ContactNumber = &contact
	}
	if req.Gender != "" {
		gender := req.Gender
		user.Gender = &gender
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.forgetExternalUsers(ctx)
	user.UpdatedAt = user.CreatedAt
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context, filter models.UserFilter) ([]*models.User, models.Pagination, error) {
	filter.Page, filter.Limit = common.ValidatePaginationParams(filter.Page, filter.Limit)
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// Update applies the allow-listed fields. Non-admins may only edit themselves
// and may not change role or status.
func (s *userService) Update(ctx context.Context, id uuid.UUID, upd models.UserUpdate, actorID uuid.UUID, actorRole string) (*models.User, error) {
	if !models.IsAdmin(actorRole) {
		if actorID != id {
			return nil, fmt.Errorf("cannot update another user: %w", common.ErrForbidden)
		}
		if upd.Role != nil || upd.Status != nil {
			return nil, fmt.Errorf("only admins can change role or status: %w", common.ErrForbidden)
		}
	}

	current, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateUserUpdate(current, &upd); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, id, upd, actorID); err != nil {
		return nil, err
	}
	s.forgetExternalUsers(ctx)
	return s.userRepo.GetByID(ctx, id)
}

func validateUserUpdate(current *models.User, upd *models.UserUpdate) error {
	if upd.FirstName != nil && strings.TrimSpace(*upd.FirstName) == "" {
		return common.FieldError("firstName", "cannot be empty")
	}
	if upd.ContactNumber != nil && !contactNumberPattern.MatchString(*upd.ContactNumber) {
		return common.FieldError("contactNumber", "must be 10 digits")
	}
	if upd.Role != nil && !oneOf(*upd.Role, models.Roles) {
		return common.FieldError("role", "is not a valid role")
	}
	if upd.Status != nil && !oneOf(*upd.Status, models.Statuses) {
		return common.FieldError("status", "must be active or inactive")
	}
	if upd.Gender != nil && !oneOf(*upd.Gender, models.Genders) {
		return common.FieldError("gender", "must be male, female or other")
	}
	if upd.DOB != nil && !upd.DOB.Before(time.Now()) {
		return common.FieldError("dob", "must be in the past")
	}

	userType := current.UserType
	if upd.UserType != nil {
		if _, ok := models.Designations[*upd.UserType]; !ok {
			return common.FieldError("userType", "must be internal or vendor")
		}
		userType = *upd.UserType
	}
	designation := current.Designation
	if upd.Designation != nil {
		designation = *upd.Designation
	}
	if (upd.UserType != nil || upd.Designation != nil) && !models.ValidDesignation(userType, designation) {
		return common.FieldError("designation", fmt.Sprintf("is not valid for user type %q", userType))
	}
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, id uuid.UUID, newPassword string, actorID uuid.UUID) error {
	if len(newPassword) < 6 {
		return common.FieldError("newPassword", "must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, id, string(hash), actorID)
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.forgetExternalUsers(ctx)
	if key := s.storage.KeyFromURL(user.ProfilePic); strings.HasPrefix(key, "avatars/") {
		s.cleaner.Remove(ctx, key, "user deleted")
	}
	return nil
}

func avatarKey(userID uuid.UUID, fileName string) string {
	return fmt.Sprintf("avatars/%s/%s-%s", userID, uuid.NewString(), path.Base(fileName))
}

// UploadProfilePic stores the new picture, points the user at it and then
// removes the previous one.
func (s *userService) UploadProfilePic(ctx context.Context, userID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", common.FieldError("profilePic", "must be an image")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	key := avatarKey(userID, fileName)
	if err := s.storage.Upload(ctx, key, reader, size, contentType); err != nil {
		return "", fmt.Errorf("failed to upload profile picture: %w", err)
	}
	if err := s.userRepo.UpdateProfilePic(ctx, userID, key); err != nil {
		s.cleaner.Remove(ctx, key, "profile picture update failed")
		return "", err
	}
	s.forgetExternalUsers(ctx)

	if previous := s.storage.KeyFromURL(user.ProfilePic); strings.HasPrefix(previous, "avatars/") {
		s.cleaner.Remove(ctx, previous, "profile picture replaced")
	}

	return s.storage.PresignedGetURL(ctx, key, ReadURLTTL)
}

func (s *userService) ProfilePicURL(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.ProfilePic == "" {
		return "", common.NotFound("Profile picture")
	}
	return s.storage.PresignedGetURL(ctx, s.storage.KeyFromURL(user.ProfilePic), ReadURLTTL)
}

func (s *userService) DeleteProfilePic(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.ProfilePic == "" {
		return common.NotFound("Profile picture")
	}
	if err := s.userRepo.UpdateProfilePic(ctx, userID, ""); err != nil {
		return err
	}
	s.forgetExternalUsers(ctx)
	s.cleaner.Remove(ctx, s.storage.KeyFromURL(user.ProfilePic), "profile picture deleted")
	return nil
}
