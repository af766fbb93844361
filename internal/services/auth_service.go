package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kriya/internal/apperr"
	"kriya/internal/models"
	"kriya/internal/repositories"
	"kriya/internal/session"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is how long a login stays valid.
const DefaultTokenTTL = 24 * time.Hour

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Email             string `json:"email" validate:"required,email,max=255"`
	Name              string `json:"name" validate:"required,min=2,max=100"`
	Password          string `json:"password" validate:"required,min=8,max=72"`
	Role              string `json:"role" validate:"required,oneof=artisan buyer"`
	PreferredLanguage string `json:"preferred_language" validate:"omitempty,oneof=en hi bn te mr ta"`
}

// AuthService handles registration, login and session lookup.
type AuthService struct {
	userRepo  repositories.UserRepository
	sessions  session.Store
	jwtSecret []byte
	tokenTTL  time.Duration
	log       *zap.Logger
}

// NewAuthService creates a new AuthService. A non-positive ttl selects
// DefaultTokenTTL.
func NewAuthService(userRepo repositories.UserRepository, sessions session.Store, jwtSecret string, ttl time.Duration, log *zap.Logger) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{
		userRepo:  userRepo,
		sessions:  sessions,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  ttl,
		log:       log,
	}
}

// Register creates an account with a hashed password.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.PreferredLanguage == "" {
		input.PreferredLanguage = "en"
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, apperr.Conflict("email '%s' already registered", input.Email)
	}
	if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:             input.Email,
		Name:              input.Name,
		Password:          string(hashedPassword),
		Role:              input.Role,
		PreferredLanguage: input.PreferredLanguage,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("role", user.Role))
	return user, nil
}

// Login checks credentials, issues a signed token and stores the session.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *session.Session, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if apperr.IsKind(err, apperr.KindNotFound) {
		return "", nil, apperr.NotAuthenticated("invalid credentials")
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperr.NotAuthenticated("invalid credentials")
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	sess := session.New(tokenString, user, expiresAt)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return "", nil, err
	}
	return tokenString, sess, nil
}

// Logout revokes the session behind token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Authenticate returns the live session for token. The token must verify and
// its session must not have been revoked.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*session.Session, error) {
	if _, err := s.ValidateToken(token); err != nil {
		return nil, apperr.NotAuthenticated("invalid or expired token")
	}
	sess, err := s.sessions.Get(ctx, token)
	if apperr.IsKind(err, apperr.KindNotFound) {
		return nil, apperr.NotAuthenticated("session expired or revoked")
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		s.log.Debug("token validation failed", zap.Error(err))
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
