package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/gw-feedback/internal/logger"
	"github.com/sbilibin2017/gw-feedback/internal/models"
	"github.com/sbilibin2017/gw-feedback/internal/repositories"
)

// AuthService handles registration and login.
type AuthService struct {
	reader      UserReader
	writer      UserWriter
	hasher      PasswordHasher
	kafkaWriter KafkaWriter
}

// NewAuthService creates a new AuthService instance. kafkaWriter may be nil.
func NewAuthService(reader UserReader, writer UserWriter, hasher PasswordHasher, kafkaWriter KafkaWriter) *AuthService {
	return &AuthService{
		reader:      reader,
		writer:      writer,
		hasher:      hasher,
		kafkaWriter: kafkaWriter,
	}
}

// Register creates a new user from a validated registration form.
func (svc *AuthService) Register(ctx context.Context, form models.RegisterForm) error {
	user, err := svc.reader.GetByUsername(ctx, form.Username)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return err
	}
	if user != nil {
		logger.Log.Infow("user already exists", "username", form.Username)
		return ErrUserAlreadyExists
	}

	hashedPassword, err := svc.hasher.Hash(form.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return ErrPasswordTooLong
		}
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	id, err := svc.writer.Save(ctx, &models.UserDB{
		Username:  form.Username,
		Password:  hashedPassword,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if errors.Is(err, repositories.ErrUsernameTaken) {
		logger.Log.Infow("user already exists", "username", form.Username)
		return ErrUserAlreadyExists
	}
	if err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return err
	}

	logger.Log.Infow("user registered", "username", form.Username, "id", id)
	publishEvent(ctx, svc.kafkaWriter, models.OperationUserRegistered, form.Username, 0)

	return nil
}

// Login checks the credentials. Unknown users and wrong passwords both
// yield ErrInvalidCredentials.
func (svc *AuthService) Login(ctx context.Context, username, password string) error {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return err
	}
	if user == nil {
		logger.Log.Infow("login for unknown user", "username", username)
		return ErrInvalidCredentials
	}

	if !svc.hasher.Verify(password, user.Password) {
		logger.Log.Infow("invalid credentials", "username", username)
		return ErrInvalidCredentials
	}

	return nil
}
