package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
	"github.com/pairforge/pairforge-backend/internal/pkg/envutil"
	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
	"github.com/pairforge/pairforge-backend/internal/repos"
	"github.com/pairforge/pairforge-backend/internal/requestdata"
)

// AuthService validates bearer tokens and stamps the caller's identity
// onto the request context.
type AuthService interface {
	SetContextFromToken(ctx context.Context, token string) (context.Context, error)
}

type authService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	secret   []byte
	now      func() time.Time
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) (AuthService, error) {
	secret := envutil.Get("JWT_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return &authService{
		db:       db,
		log:      log,
		userRepo: userRepo,
		secret:   []byte(secret),
		now:      time.Now,
	}, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	userID, err := as.verify(token)
	if err != nil {
		return ctx, apierr.Unauthorized("invalid_token", err)
	}
	user, err := as.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return ctx, err
	}
	if user == nil {
		return ctx, apierr.Unauthorized("unknown_user", fmt.Errorf("no user for token subject %s", userID))
	}
	if err := as.userRepo.TouchLastActive(ctx, nil, userID, as.now().UTC()); err != nil {
		as.log.Warn("failed to bump last_active_at", "user_id", userID, "error", err)
	}
	return requestdata.WithRequestData(ctx, &requestdata.RequestData{UserID: userID}), nil
}

func (as *authService) verify(token string) (uuid.UUID, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return as.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, fmt.Errorf("token missing subject")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("token subject is not a user id: %w", err)
	}
	return userID, nil
}
