package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/alituydurr/sanatmerkezi-sub001/internal/model"
	"github.com/alituydurr/sanatmerkezi-sub001/internal/repository"
)

type AuthService struct {
	userRepo    *repository.UserRepository
	emailSender *EmailSender
	jwtSecret   string
	tokenExpiry time.Duration
	baseURL     string
	logger      *logrus.Logger
}

func NewAuthService(
	userRepo *repository.UserRepository,
	emailSender *EmailSender,
	jwtSecret string,
	tokenExpiry time.Duration,
	baseURL string,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		emailSender: emailSender,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
		baseURL:     baseURL,
		logger:      logger,
	}
}

type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// SignUp registers a new user. The role defaults to admin2 (office staff)
// when omitted.
func (s *AuthService) SignUp(ctx context.Context, input model.SignUpInput) (*model.User, error) {
	s.logger.WithFields(logrus.Fields{
		"email":    input.Email,
		"username": input.Username,
	}).Info("Registering new user")

	exists, err := s.userRepo.ExistsByEmailOrUsername(ctx, input.Email, input.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("email or username already exists: %w", model.ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = model.RoleAdmin2
	}

	now := time.Now()
	user := &model.User{
		ID:        uuid.New(),
		Username:  input.Username,
		Email:     input.Email,
		Password:  string(hashedPassword),
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("User registered")

	// Welcome email is fire-and-forget; the account exists either way.
	go func(email, username string) {
		if err := s.emailSender.SendActivationNotice(email, username); err != nil {
			s.logger.WithError(err).Warn("Failed to send activation email")
		}
	}(user.Email, user.Username)

	return user, nil
}

// SignIn verifies credentials and issues a JWT carrying the user's role.
func (s *AuthService) SignIn(ctx context.Context, input model.SignInInput) (string, error) {
	s.logger.WithField("email", input.Email).Info("User sign-in attempt")

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials: %w", model.ErrForbidden)
	}
	if !user.Active {
		return "", fmt.Errorf("account disabled: %w", model.ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return "", fmt.Errorf("invalid credentials: %w", model.ErrForbidden)
	}

	token, err := s.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("User signed in")
	return token, nil
}

func (s *AuthService) GenerateToken(userID uuid.UUID, role model.Role) (string, error) {
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ParseToken validates a JWT and returns the user id and role.
func (s *AuthService) ParseToken(tokenString string) (uuid.UUID, model.Role, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return uuid.Nil, "", fmt.Errorf("invalid token: %w", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid token subject: %w", err)
	}

	return userID, claims.Role, nil
}

// RequestPasswordReset creates a single-use reset token and emails the link.
// The response is identical whether or not the email exists, and the email
// send happens after the token row is committed.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.WithField("email", email).Info("Password reset requested for unknown email")
		return nil
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	reset := &model.PasswordReset{
		Token:     hex.EncodeToString(raw),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(1 * time.Hour),
		CreatedAt: time.Now(),
	}

	if err := s.userRepo.CreatePasswordReset(ctx, reset); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/auth/reset/confirm?token=%s", s.baseURL, reset.Token)
	go func(email, link string) {
		if err := s.emailSender.SendPasswordReset(email, link); err != nil {
			s.logger.WithError(err).Warn("Failed to send password reset email")
		}
	}(user.Email, link)

	return nil
}

// ConfirmPasswordReset consumes the token and sets the new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, password string) error {
	userID, err := s.userRepo.ConsumePasswordReset(ctx, token, time.Now())
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return err
	}

	s.logger.WithField("user_id", userID).Info("Password reset completed")
	return nil
}
