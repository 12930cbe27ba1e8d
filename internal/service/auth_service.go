package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maeumlog/diary-api/internal/dto"
	"github.com/maeumlog/diary-api/internal/models"
	"github.com/maeumlog/diary-api/internal/repository"
	appErrors "github.com/maeumlog/diary-api/pkg/errors"
)

// AuthConfig defines configuration for student session tokens.
type AuthConfig struct {
	TokenSecret string
	TokenExpiry time.Duration
	Issuer      string
}

// AuthService authenticates students against the roster and issues session
// tokens. Passwords are 6-digit plaintext strings compared post-trim; this is
// a classroom tool, not a hardened system, and the roster owns the format.
type AuthService struct {
	roster    repository.RosterLookup
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(roster repository.RosterLookup, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{roster: roster, validator: validate, logger: logger, config: config}
}

// Login authenticates a student and returns the account plus a session token.
// Unknown name and wrong password produce the same generic failure so the
// response does not enumerate accounts.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*models.StudentAccount, *dto.LoginResponse, error) {
	// Credentials match post-trim, so trim before shape validation too.
	req.Name = strings.TrimSpace(req.Name)
	req.Password = strings.TrimSpace(req.Password)
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	account, err := s.roster.Lookup(ctx, req.Name)
	if err != nil {
		if appErrors.HasCode(err, appErrors.ErrNotFound) {
			return nil, nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, nil, err
	}

	if account.Password != req.Password {
		return nil, nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	token, err := s.generateToken(account)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}

	s.logger.Info("student logged in", zap.String("student", account.Name))

	return account, &dto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.TokenExpiry.Seconds()),
		StudentName: account.Name,
	}, nil
}

// ValidateToken parses and validates a session token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) generateToken(account *models.StudentAccount) (string, error) {
	issuedAt := time.Now().UTC()
	claims := &models.SessionClaims{
		StudentName: account.Name,
		SheetID:     account.SheetID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   account.Name,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.TokenSecret))
}
