package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"newsdesk/config"
	"newsdesk/helper"
	"newsdesk/models"
	"newsdesk/repositories"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	ParseToken(tokenString string) (*Claims, error)
}

type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo repositories.UserRepository
	jwt      config.JWTConfig
	hooks    []RoleHook
	log      *slog.Logger
	now      func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, jwtCfg config.JWTConfig, log *slog.Logger, hooks ...RoleHook) AuthService {
	return &authService{
		userRepo: userRepo,
		jwt:      jwtCfg,
		hooks:    hooks,
		log:      log,
		now:      time.Now,
	}
}

// Register creates a reader account. Other roles are only granted by an
// administrator.
func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrorConflict{Message: "A user with that username already exists."}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    strings.TrimSpace(req.Email),
		Password: string(hashedPassword),
		Role:     models.RoleReader,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := runRoleHooks(ctx, s.hooks, user, ""); err != nil {
		s.log.Warn("role hooks failed after registration", slog.Uint64("user_id", uint64(user.ID)), helper.Err(err))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorUnauthorized{Message: "invalid credentials"}
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, models.ErrorUnauthorized{Message: "invalid credentials"}
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *authService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return user, nil
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwt.Secret), nil
	})
	if err != nil {
		return nil, models.ErrorUnauthorized{Message: "Invalid token: " + err.Error()}
	}
	if !token.Valid {
		return nil, models.ErrorUnauthorized{Message: "Token is not valid"}
	}
	return claims, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := s.now()

	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwt.Expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwt.Secret))
}
