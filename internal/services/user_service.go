package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"budget/internal/core"
	"budget/internal/ports"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt ignores anything longer
)

// UserService registers and authenticates users.
type UserService struct {
	users ports.UserStore
	cost  int
}

func NewUserService(users ports.UserStore) *UserService {
	return &UserService{users: users, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.cost = cost
	return s
}

// Register creates a user with a unique email and full name.
func (s *UserService) Register(ctx context.Context, email, fullname, password string) (core.User, error) {
	email = core.NormalizeEmail(email)
	fullname = strings.TrimSpace(fullname)

	if err := core.ValidateEmail(email); err != nil {
		return core.User{}, err
	}
	if fullname == "" {
		return core.User{}, core.ErrEmptyFullname
	}
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return core.User{}, core.ErrInvalidPassword
	}

	if _, found, err := s.users.FindUserByEmail(ctx, email); err != nil {
		return core.User{}, fmt.Errorf("check email: %w", err)
	} else if found {
		return core.User{}, core.ErrEmailTaken
	}
	if _, found, err := s.users.FindUserByFullname(ctx, fullname); err != nil {
		return core.User{}, fmt.Errorf("check full name: %w", err)
	} else if found {
		return core.User{}, core.ErrFullnameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, core.User{
		Email:        email,
		Fullname:     fullname,
		PasswordHash: string(hash),
	})
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "user_id", user.ID)
	return user, nil
}

// Authenticate returns the user matching email and password. Unknown emails
// and wrong passwords both yield core.ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (core.User, error) {
	user, found, err := s.users.FindUserByEmail(ctx, core.NormalizeEmail(email))
	if err != nil {
		return core.User{}, fmt.Errorf("find user: %w", err)
	}
	if !found {
		return core.User{}, core.ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		slog.WarnContext(ctx, "Login rejected", "user_id", user.ID)
		return core.User{}, core.ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, fmt.Errorf("compare password: %w", err)
	}
	return user, nil
}
