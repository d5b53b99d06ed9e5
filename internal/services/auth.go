package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"ipl-prediction-backend/internal/models"
	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Identity is the authenticated caller of an operation.
type Identity struct {
	UserID uint
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

type AuthService struct {
	store     *repository.Store
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(store *repository.Store, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{store: store, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, username, password, displayName string) (*AuthResult, error) {
	user, err := s.createUser(ctx, username, password, displayName, models.RoleUser)
	if err != nil {
		return nil, err
	}

	token, err := s.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, errors.Internal("failed to issue token", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// CreateAdmin creates an administrator account, or promotes an existing user with
// the same username after checking the password.
func (s *AuthService) CreateAdmin(ctx context.Context, username, password string) (*models.User, error) {
	existing, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, errors.Internal("failed to load user", err)
	}
	if existing == nil {
		return s.createUser(ctx, username, password, username, models.RoleAdmin)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(password)); err != nil {
		return nil, errors.Conflict("username already taken")
	}
	if existing.Role != models.RoleAdmin {
		if err := s.store.Users.Update(ctx, existing.ID, map[string]interface{}{"role": models.RoleAdmin}); err != nil {
			return nil, errors.Internal("failed to promote user", err)
		}
		existing.Role = models.RoleAdmin
	}
	return existing, nil
}

func (s *AuthService) createUser(ctx context.Context, username, password, displayName, role string) (*models.User, error) {
	existing, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, errors.Internal("failed to load user", err)
	}
	if existing != nil {
		return nil, errors.Conflict("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password", err)
	}

	if displayName == "" {
		displayName = username
	}
	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         role,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.Conflict("username already taken")
		}
		return nil, errors.Internal("failed to create user", err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, errors.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, errors.Unauthenticated("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.Unauthenticated("invalid credentials")
	}

	token, err := s.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, errors.Internal("failed to issue token", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) GenerateToken(userID uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, errors.Unauthenticated("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.Unauthenticated("invalid claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return Identity{}, errors.Unauthenticated("invalid user_id in token")
	}
	role, ok := claims["role"].(string)
	if !ok || (role != models.RoleUser && role != models.RoleAdmin) {
		return Identity{}, errors.Unauthenticated("invalid role in token")
	}

	return Identity{UserID: uint(userIDFloat), Role: role}, nil
}
