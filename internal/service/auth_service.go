package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"busynessBuster/internal/logger"
	"busynessBuster/internal/models/user"
	repo "busynessBuster/internal/repository"
	"busynessBuster/internal/repository/inter"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Claims — содержимое токена: subject (id пользователя), имя и срок
// действия. Токены stateless, отзыва на сервере нет — logout это
// забывание токена клиентом.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type LoginResult struct {
	AccessToken string
	UserID      int64
	Username    string
}

type AuthService struct {
	users  inter.UserRepository
	secret []byte
	ttl    time.Duration
}

func NewAuthService(users inter.UserRepository, secret string, ttl time.Duration) AuthService {
	return AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Login проверяет пару логин/пароль и выдаёт токен. Любая причина отказа
// наружу выглядит одинаково.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Попытка входа с неизвестным именем")
			return nil, NewAuthError()
		}
		return nil, fmt.Errorf("поиск пользователя: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		logger.Info("Service: Неверный пароль", zap.Int64("user_id", u.ID))
		return nil, NewAuthError()
	}

	token, err := s.IssueToken(u)
	if err != nil {
		return nil, fmt.Errorf("выдача токена: %w", err)
	}

	return &LoginResult{
		AccessToken: token,
		UserID:      u.ID,
		Username:    u.Username,
	}, nil
}

func (s *AuthService) IssueToken(u *user.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("подпись токена: %w", err)
	}
	return signed, nil
}

// ValidateToken проверяет подпись и срок действия. Любой структурный или
// криптографический дефект — одна и та же AUTH_ERROR, без частичного
// результата.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, NewAuthError()
	}

	if _, err := claims.UserID(); err != nil {
		return nil, NewAuthError()
	}

	return claims, nil
}

// UserID разбирает subject токена.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("разбор subject: %w", err)
	}
	return id, nil
}

// HashPassword используется при провижининге пользователя (cmd/seed).
// bcrypt сам генерирует соль на каждый хеш.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("хеширование пароля: %w", err)
	}
	return string(hash), nil
}
