package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Service is the main auth service with dependencies
type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGenerator
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(repo RepositoryAPI, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(accessSecret string, accessTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret: []byte(accessSecret),
		AccessTokenTTL:    accessTTL,
		now:               time.Now,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// burnCompare spends the same bcrypt work as a real comparison so unknown
// identifiers are not distinguishable by latency.
func burnCompare(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Authenticate validates credentials and returns the identity, its permitted
// table names and an access token.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	creds, err := s.repo.FindByEmail(ctx, dto.Login())
	if err != nil {
		s.logger.Error("failed to look up staff credentials", "error", err)
		return nil, internal.NewInternalError("failed to authenticate", err)
	}
	if creds == nil {
		burnCompare(dto.Password)
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Info("login rejected", "user_id", creds.ID)
		return nil, internal.ErrInvalidCredentials
	}

	permissions, err := s.repo.GrantedTableNames(ctx, creds.ID)
	if err != nil {
		s.logger.Error("failed to resolve permissions", "user_id", creds.ID, "error", err)
		return nil, internal.NewInternalError("failed to authenticate", err)
	}
	if permissions == nil {
		permissions = []string{}
	}

	token, err := s.tokenGenerator.GenerateAccessToken(creds.ID, creds.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}
	claims, err := s.tokenGenerator.ValidateToken(token)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("login succeeded", "user_id", creds.ID, "permissions", len(permissions))
	return &LoginResult{
		Identity:    creds.Identity(),
		Permissions: permissions,
		Token:       token,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// VerifyAccessToken validates tokenString and returns the staff id it was issued for.
func (s *Service) VerifyAccessToken(tokenString string) (int64, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.ErrInvalidToken
	}
	return id, nil
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(userID int64, email string) (string, error) {
	now := j.now()
	subject := strconv.FormatInt(userID, 10)

	claims := &Claims{
		UserID: subject,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.AccessTokenSecret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.AccessTokenSecret, nil
	}, jwt.WithTimeFunc(j.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrInvalidToken
}
