package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"busynessBuster/internal/logger"
	"busynessBuster/internal/models/user"
	repo "busynessBuster/internal/repository"

	"github.com/jackc/pgx/v5"
)

func (s *Storage) CreateUser(ctx context.Context, u *user.User) error {
	start := time.Now()

	query := `INSERT INTO users (username, password_hash)
				VALUES ($1, $2)
				RETURNING id`

	err := s.pool.QueryRow(ctx, query, u.Username, u.PasswordHash).Scan(&u.ID)
	if err != nil {
		logger.Error("Repository: Не удалось создать пользователя", err)
		return fmt.Errorf("создание пользователя: %w", err)
	}

	s.warnIfSlow(start, time.Millisecond*100)
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id int64) (*user.User, error) {
	start := time.Now()

	query := `SELECT id, username, password_hash
				FROM users
				WHERE id = $1`

	u := &user.User{}
	err := s.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя", err)
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	s.warnIfSlow(start, time.Millisecond*100)
	return u, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	start := time.Now()

	query := `SELECT id, username, password_hash
				FROM users
				WHERE username = $1`

	u := &user.User{}
	err := s.pool.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя", err)
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	s.warnIfSlow(start, time.Millisecond*100)
	return u, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*user.User, error) {
	start := time.Now()

	query := `SELECT id, username, password_hash
				FROM users
				ORDER BY id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить пользователей", err)
		return nil, fmt.Errorf("получение пользователей: %w", err)
	}
	defer rows.Close()

	users := []*user.User{}
	for rows.Next() {
		u := &user.User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
			logger.Error("Repository: Ошибка сканирования пользователя", err)
			return nil, fmt.Errorf("сканирование пользователя: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	s.warnIfSlow(start, time.Millisecond*100)
	return users, nil
}
