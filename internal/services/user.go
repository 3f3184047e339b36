package services

import (
	"context"
	"errors"

	"github.com/traduz/apiserver/internal/store"
	"github.com/traduz/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// Defaults applied to new accounts, mirrored by the database schema.
const (
	defaultPreferredLanguage = "pt"
	defaultTheme             = "light"
)

// ErrInvalidCredentials is returned when the email/password pair does
// not match an account. Unknown emails and wrong passwords are
// indistinguishable on purpose.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
}

// ProfileUpdate carries the optional fields of a profile change. Nil
// fields are left untouched. The password and the notifications flag
// are not updatable through this path.
type ProfileUpdate struct {
	Name               *string
	Email              *string
	PreferredLanguage  *string
	Theme              *string
	AutoDetectLanguage *bool
}

// UserService encapsulates account use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates an account with a bcrypt-hashed password and the
// default preferences. A taken email yields store.ErrDuplicateEmail.
func (s *UserService) Register(ctx context.Context, name, email, password string) (types.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}

	return s.repo.Create(ctx, types.User{
		Name:               name,
		Email:              email,
		PasswordHash:       string(hashed),
		PreferredLanguage:  defaultPreferredLanguage,
		Theme:              defaultTheme,
		Notifications:      true,
		AutoDetectLanguage: true,
	})
}

// Authenticate verifies an email/password pair.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (types.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile applies the supplied fields to the user's profile and
// persists the result.
func (s *UserService) UpdateProfile(ctx context.Context, userID int, patch ProfileUpdate) (types.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return types.User{}, err
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.PreferredLanguage != nil {
		user.PreferredLanguage = *patch.PreferredLanguage
	}
	if patch.Theme != nil {
		user.Theme = *patch.Theme
	}
	if patch.AutoDetectLanguage != nil {
		user.AutoDetectLanguage = *patch.AutoDetectLanguage
	}

	return s.repo.Update(ctx, user)
}
