package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines the persistence contract for user accounts
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// UserService defines the business-logic contract for account management
type UserService interface {
	Signup(ctx context.Context, user *models.User, password string) error
	Login(ctx context.Context, email, password string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

type userService struct {
	repo   UserRepository
	logger *logrus.Logger
}

func NewUserService(repo UserRepository, logger *logrus.Logger) UserService {
	return &userService{
		repo:   repo,
		logger: logger,
	}
}

// Signup registers a new account with a bcrypt-hashed password
func (s *userService) Signup(ctx context.Context, user *models.User, password string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "Signup",
		"email":   user.Email,
	})
	log.Info("Attempting to register a new user")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		return fmt.Errorf("service: could not hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			log.Warn("Email already registered")
			return ErrEmailTaken
		}
		log.WithError(err).Error("Failed to create user in repository")
		return fmt.Errorf("service: could not create user: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User registered successfully")
	return nil
}

// Login verifies credentials and stamps the last login time
func (s *userService) Login(ctx context.Context, email, password string) (*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "Login",
		"email":   email,
	})
	log.Info("Attempting to log user in")

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Warn("Login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		log.WithError(err).Error("Failed to get user from repository")
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn("Login attempt with wrong password")
		return nil, ErrInvalidCredentials
	}

	// A failed stamp is not worth rejecting a valid login over
	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.WithError(err).Warn("Failed to update last login time")
	}

	log.WithField("user_id", user.ID).Info("User logged in successfully")
	return user, nil
}

// ListUsers returns all registered accounts
func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "ListUsers",
	})
	log.Info("Listing users")

	users, err := s.repo.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list users from repository")
		return nil, fmt.Errorf("service: could not list users: %w", err)
	}
	return users, nil
}
