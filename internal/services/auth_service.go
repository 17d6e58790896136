package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jcamil/bienes-raices/internal/constants"
	"github.com/jcamil/bienes-raices/internal/models"
	"github.com/jcamil/bienes-raices/internal/repository"
	"github.com/jcamil/bienes-raices/internal/utils"
)

var (
	ErrEmailTaken           = errors.New("el usuario ya esta registrado")
	ErrInvalidCredentials   = errors.New("el email o el password son incorrectos")
	ErrAccountNotConfirmed  = errors.New("tu cuenta no ha sido confirmada")
	ErrPasswordTooShort     = errors.New("el password es muy corto")
	ErrUserNotFound         = errors.New("el email no pertenece a ningun usuario")
	ErrInvalidAccountToken  = errors.New("hubo un error al validar tu informacion")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, login, confirmation and password reset.
type AuthService struct {
	userRepo repository.UserRepository
	signer   *utils.TokenSigner
	mailer   Mailer
	baseURL  string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, signer *utils.TokenSigner, mailer Mailer, baseURL string) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		signer:   signer,
		mailer:   mailer,
		baseURL:  baseURL,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates an unconfirmed user and emails the confirmation link.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	token, err := s.signer.Sign(email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue confirmation token: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Confirmed:    false,
		Token:        token,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	confirmURL := fmt.Sprintf("%s/auth/confirmar/%s", s.baseURL, token)
	if err := s.mailer.SendConfirmation(user.Email, user.Name, confirmURL); err != nil {
		// The account exists either way; the user can request a new link.
		log.Printf("failed to send confirmation mail to %s: %v", user.Email, err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user. Unknown
// email and wrong password report the same error.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.Confirmed {
		return nil, ErrAccountNotConfirmed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Confirm consumes a confirmation token and activates the account.
func (s *AuthService) Confirm(token string) error {
	if _, err := s.signer.Verify(token); err != nil {
		return ErrInvalidAccountToken
	}

	user, err := s.userRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidAccountToken
		}
		return fmt.Errorf("failed to find user by token: %w", err)
	}

	user.Token = ""
	user.Confirmed = true
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to confirm user: %w", err)
	}
	return nil
}

// RequestPasswordReset issues a reset token and emails the reset link.
func (s *AuthService) RequestPasswordReset(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	token, err := s.signer.Sign(user.Email)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	user.Token = token
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/auth/olvide-password/%s", s.baseURL, token)
	if err := s.mailer.SendPasswordReset(user.Email, user.Name, resetURL); err != nil {
		log.Printf("failed to send reset mail to %s: %v", user.Email, err)
	}

	return nil
}

// CheckResetToken reports whether a reset token is valid and pending.
func (s *AuthService) CheckResetToken(token string) error {
	if _, err := s.signer.Verify(token); err != nil {
		return ErrInvalidAccountToken
	}
	if _, err := s.userRepo.FindByToken(token); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidAccountToken
		}
		return fmt.Errorf("failed to find user by token: %w", err)
	}
	return nil
}

// ResetPassword consumes a reset token and stores the new password.
func (s *AuthService) ResetPassword(token, password string) error {
	if len(password) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	if _, err := s.signer.Verify(token); err != nil {
		return ErrInvalidAccountToken
	}

	user, err := s.userRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidAccountToken
		}
		return fmt.Errorf("failed to find user by token: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hashedPassword)
	user.Token = ""
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to store new password: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
