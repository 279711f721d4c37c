package services

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/avelarq/userbase-be/internal/models"
	"github.com/avelarq/userbase-be/internal/repository"
	"github.com/avelarq/userbase-be/internal/validation"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// ErrUserNotFound is returned when no user exists for the requested id.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when a create or update would reuse another
// user's email.
var ErrEmailExists = errors.New("email already exists")

// ValidationError describes client input rejected before any side effect
// took place.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ImageUpload carries an uploaded profile image into the service.
type ImageUpload struct {
	Filename string
	Data     io.Reader
}

// CreateUserInput is the payload for creating a user. Image is optional.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Image     *ImageUpload
}

// UpdateUserInput is the payload for a partial update. Blank text fields and
// a nil Image leave the stored values untouched.
type UpdateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Image     *ImageUpload
}

// ImageStorer is the file store the service links image filenames against.
type ImageStorer interface {
	Save(filename string, r io.Reader) (string, error)
	Delete(filename string) error
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id int64) (models.User, error)
	GetAllUsers() ([]models.User, error)
	CreateUser(input CreateUserInput) (models.User, error)
	UpdateUser(id int64, input UpdateUserInput) (models.User, error)
	DeleteUser(id int64) error
}

// UserService provides business logic for user management.
type UserService struct {
	repo   repository.UserRepositoryProvider
	images ImageStorer
}

// NewUserService creates a new UserService.
func NewUserService(repo repository.UserRepositoryProvider, images ImageStorer) *UserService {
	return &UserService{repo: repo, images: images}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id int64) (models.User, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetAllUsers retrieves every user.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	return s.repo.FindAll()
}

// CreateUser validates the payload, saves the optional profile image, hashes
// the password and inserts the record. The image file is written before its
// name is linked so a record never references a file that was not persisted.
func (s *UserService) CreateUser(input CreateUserInput) (models.User, error) {
	fields := map[string]string{
		"first_name": input.FirstName,
		"last_name":  input.LastName,
		"email":      input.Email,
		"password":   input.Password,
	}
	if missing := validation.MissingFields(fields, []string{"first_name", "last_name", "email", "password"}); len(missing) > 0 {
		return models.User{}, &ValidationError{Message: "Missing fields: " + strings.Join(missing, ", ")}
	}
	if err := validateShapes(input.FirstName, input.LastName, input.Email, input.Password); err != nil {
		return models.User{}, err
	}

	user := models.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
	}

	if input.Image != nil {
		filename, err := s.saveImage(input.Image)
		if err != nil {
			return models.User{}, err
		}
		user.Image = &filename
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashedPassword)

	if err := s.repo.Insert(&user); err != nil {
		if user.Image != nil {
			s.discardImage(*user.Image, 0)
		}
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return models.User{}, ErrEmailExists
		}
		return models.User{}, err
	}
	return user, nil
}

// UpdateUser overwrites the fields supplied in the input and leaves the rest
// unchanged. A supplied password is re-hashed. A new image replaces the old
// link; the replaced file is removed best-effort.
func (s *UserService) UpdateUser(id int64, input UpdateUserInput) (models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return models.User{}, err
	}

	if strings.TrimSpace(input.FirstName) != "" {
		if !validation.ValidName(input.FirstName) {
			return models.User{}, &ValidationError{Message: "first_name must be between 2 and 100 characters"}
		}
		user.FirstName = input.FirstName
	}
	if strings.TrimSpace(input.LastName) != "" {
		if !validation.ValidName(input.LastName) {
			return models.User{}, &ValidationError{Message: "last_name must be between 2 and 100 characters"}
		}
		user.LastName = input.LastName
	}
	if strings.TrimSpace(input.Email) != "" {
		if !validation.ValidEmail(input.Email) {
			return models.User{}, &ValidationError{Message: "invalid email format"}
		}
		user.Email = input.Email
	}
	if strings.TrimSpace(input.Password) != "" {
		if !validation.ValidPassword(input.Password) {
			return models.User{}, &ValidationError{Message: "password must be at least 8 characters"}
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	var replaced string
	if input.Image != nil {
		filename, err := s.saveImage(input.Image)
		if err != nil {
			return models.User{}, err
		}
		if user.Image != nil {
			replaced = *user.Image
		}
		user.Image = &filename
	}

	if err := s.repo.Update(user); err != nil {
		// The stored record still links its old image; discard the file
		// saved for this request, not the linked one.
		if user.Image != nil && input.Image != nil {
			s.discardImage(*user.Image, id)
		}
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return models.User{}, ErrEmailExists
		}
		if errors.Is(err, repository.ErrNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	// Only now is the old file unreferenced and safe to remove.
	if replaced != "" {
		s.discardImage(replaced, id)
	}
	return user, nil
}

// DeleteUser removes the record and, best-effort, its linked image file.
func (s *UserService) DeleteUser(id int64) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}

	if user.Image != nil {
		if err := s.images.Delete(*user.Image); err != nil {
			log.Warn().Err(err).Str("image", *user.Image).Int64("user_id", id).Msg("Failed to remove profile image during user deletion")
		}
	}

	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// saveImage checks the extension and persists the upload, returning the
// stored filename.
func (s *UserService) saveImage(image *ImageUpload) (string, error) {
	if !validation.AllowedImageExtension(image.Filename) {
		return "", &ValidationError{Message: "image must be a jpg, jpeg or png file"}
	}
	filename, err := s.images.Save(image.Filename, image.Data)
	if err != nil {
		return "", fmt.Errorf("image persistence failed: %w", err)
	}
	return filename, nil
}

// discardImage removes a file that is no longer (or never became)
// referenced by any record. Best-effort: failures are logged only.
func (s *UserService) discardImage(filename string, id int64) {
	if err := s.images.Delete(filename); err != nil {
		log.Warn().Err(err).Str("image", filename).Int64("user_id", id).Msg("Failed to remove unreferenced profile image")
	}
}

// validateShapes applies the field format rules shared by create.
func validateShapes(firstName, lastName, email, password string) error {
	if !validation.ValidName(firstName) {
		return &ValidationError{Message: "first_name must be between 2 and 100 characters"}
	}
	if !validation.ValidName(lastName) {
		return &ValidationError{Message: "last_name must be between 2 and 100 characters"}
	}
	if !validation.ValidEmail(email) {
		return &ValidationError{Message: "invalid email format"}
	}
	if !validation.ValidPassword(password) {
		return &ValidationError{Message: "password must be at least 8 characters"}
	}
	return nil
}
