package usecase

import (
	"errors"
	"regexp"

	"feedstream/internal/apperr"
	"feedstream/internal/entity"
	"feedstream/internal/policy"
	"feedstream/internal/repo/persistent"
	"feedstream/pkg/jwt"
	"feedstream/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

// loginFailed is deliberately identical for an unknown email and a wrong
// password so the response carries no enumeration signal.
const loginFailed = "user does not exist"

const minPasswordLength = 5

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type AuthUseCase interface {
	Register(email, name, password string) (*entity.User, error)
	Login(email, password string) (string, string, error)
	GetStatus(identity policy.Identity) (string, error)
	SetStatus(identity policy.Identity, status string) (string, error)
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	jwtService *jwt.Service
	logger     *logger.Logger
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	jwtService *jwt.Service,
	log *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     log,
	}
}

func (uc *authUseCase) Register(email, name, password string) (*entity.User, error) {
	var fields []apperr.FieldError
	if !emailPattern.MatchString(email) {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "Email is invalid"})
	}
	if len(password) < minPasswordLength {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "Password too short"})
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}

	_, err := uc.userRepo.GetByEmail(email)
	if err == nil {
		return nil, apperr.Conflict("user with email %s already exists", email)
	}
	var notFound *apperr.NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, err
	}

	user := &entity.User{
		Email:    email,
		Name:     name,
		Password: string(hashedPassword),
		Status:   "I am new!",
	}

	if err := uc.userRepo.Create(user); err != nil {
		uc.logger.Error("Failed to create user: %v", err)
		return nil, err
	}

	user.Password = ""
	return user, nil
}

func (uc *authUseCase) Login(email, password string) (string, string, error) {
	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		// Only an unknown email collapses into the shared login failure;
		// store errors are not an authentication outcome.
		var notFound *apperr.NotFoundError
		if errors.As(err, &notFound) {
			return "", "", apperr.Authentication(loginFailed)
		}
		return "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", apperr.Authentication(loginFailed)
	}

	token, err := uc.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return "", "", err
	}

	return token, user.ID, nil
}

func (uc *authUseCase) GetStatus(identity policy.Identity) (string, error) {
	if err := policy.RequireAuthenticated(identity); err != nil {
		return "", err
	}

	user, err := uc.userRepo.GetByID(identity.UserID)
	if err != nil {
		// The token references a user that no longer resolves; treat the
		// session as invalid.
		var notFound *apperr.NotFoundError
		if errors.As(err, &notFound) {
			return "", apperr.NotAuthenticated()
		}
		return "", err
	}

	return user.Status, nil
}

func (uc *authUseCase) SetStatus(identity policy.Identity, status string) (string, error) {
	if err := policy.RequireAuthenticated(identity); err != nil {
		return "", err
	}

	user, err := uc.userRepo.GetByID(identity.UserID)
	if err != nil {
		var notFound *apperr.NotFoundError
		if errors.As(err, &notFound) {
			return "", apperr.NotAuthenticated()
		}
		return "", err
	}

	user.Status = status
	if err := uc.userRepo.Update(user); err != nil {
		uc.logger.Error("Failed to update user status: %v", err)
		return "", err
	}

	return user.Status, nil
}
