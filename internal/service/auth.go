package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cashflowpro/forecast-go/internal/domain"
	"github.com/cashflowpro/forecast-go/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var authTracer = otel.Tracer("service/auth")

const tokenIssuer = "cfp-api"

// JWTClaims are the custom claims carried in access tokens.
type JWTClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Type  string `json:"type"` // always "access"
	jwt.RegisteredClaims
}

// AuthService handles login and access token validation.
type AuthService struct {
	profiles  port.ProfileStore
	logger    *zap.Logger
	jwtSecret []byte
	accessTTL time.Duration
}

// NewAuthService creates the auth service.
func NewAuthService(profiles port.ProfileStore, logger *zap.Logger, jwtSecret string, accessTTL time.Duration) *AuthService {
	return &AuthService{
		profiles:  profiles,
		logger:    logger,
		jwtSecret: []byte(jwtSecret),
		accessTTL: accessTTL,
	}
}

// Login verifies credentials and issues an access token. Unknown
// emails and wrong passwords produce the same error so the endpoint
// does not leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, &domain.ErrValidation{Field: "email", Message: "is required"}
	}
	if req.Password == "" {
		return nil, &domain.ErrValidation{Field: "password", Message: "is required"}
	}

	user, err := s.profiles.GetUserByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("login failed: user lookup", zap.String("email", email), zap.Error(err))
		return nil, &domain.ErrUnauthorized{Message: "invalid email or password"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login failed: password mismatch", zap.String("user_id", user.ID))
		return nil, &domain.ErrUnauthorized{Message: "invalid email or password"}
	}

	token, err := s.signAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return &domain.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(s.accessTTL.Seconds()),
		UserID:      user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
	}, nil
}

// ValidateAccessToken parses and verifies a bearer token, returning
// the claims for the request context.
func (s *AuthService) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, &domain.ErrUnauthorized{Message: "invalid or expired token"}
	}
	if claims.Type != "access" {
		return nil, &domain.ErrUnauthorized{Message: "invalid token type"}
	}
	return claims, nil
}

func (s *AuthService) signAccessToken(user *domain.UserProfile) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Sub:   user.ID,
		Email: user.Email,
		Type:  "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
