package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/repo"
	"github.com/josh-kartchner/traction/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
)

const minPasswordLen = 8

// UserService gates the API behind a username and password.
type UserService struct {
	repo   repo.UserRepo
	logger *log.Logger
	cost   int
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo, logger *log.Logger) *UserService {
	return &UserService{repo: repo, logger: logger, cost: bcrypt.DefaultCost}
}

// ValidateCredentials checks username and password; returns user if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Register creates a new user with hashed password.
func (s *UserService) Register(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	if len(password) < minPasswordLen {
		return dom.User{}, invalid("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, string(hash))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, err
	}
	s.logger.WithField("user_id", u.ID).Info("user.registered")
	return u, nil
}
