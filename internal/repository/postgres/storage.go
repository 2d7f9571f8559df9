package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"busynessBuster/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Storage владеет пулом соединений и всеми четырьмя таблицами.
// Один тип на все таблицы: upsert событий и SET NULL при удалении цели
// должны жить в одной базе и одной транзакции.
type Storage struct {
	pool          *pgxpool.Pool
	migrationsDir string
}

type PoolConfig struct {
	MaxConns    int32
	MinConns    int32
	IdleTimeout time.Duration
}

func New(ctx context.Context, connString string, poolCfg PoolConfig, migrationsDir string) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка разбора строки подключения", err)
		return nil, fmt.Errorf("разбор строки подключения: %w", err)
	}

	if poolCfg.MaxConns > 0 {
		config.MaxConns = poolCfg.MaxConns
	}
	if poolCfg.MinConns > 0 {
		config.MinConns = poolCfg.MinConns
	}
	if poolCfg.IdleTimeout > 0 {
		config.MaxConnIdleTime = poolCfg.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное подключение к PostgreSQL")
	return &Storage{pool: pool, migrationsDir: migrationsDir}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) Migrate(ctx context.Context) error {
	logger.Info("Repository: Применение миграций")
	return s.execMigrations(ctx, "001_init.up.sql", "002_indexes.up.sql")
}

func (s *Storage) Down(ctx context.Context) error {
	logger.Info("Repository: Откат миграций")
	return s.execMigrations(ctx, "002_indexes.down.sql", "001_init.down.sql")
}

func (s *Storage) execMigrations(ctx context.Context, files ...string) error {
	for _, name := range files {
		sql, err := os.ReadFile(filepath.Join(s.migrationsDir, name))
		if err != nil {
			logger.Error("Repository: Не удалось прочитать миграцию "+name, err)
			return fmt.Errorf("чтение миграции %s: %w", name, err)
		}

		if _, err := s.pool.Exec(ctx, string(sql)); err != nil {
			logger.Error("Repository: Не удалось применить миграцию "+name, err)
			return fmt.Errorf("применение миграции %s: %w", name, err)
		}
	}
	return nil
}

func (s *Storage) warnIfSlow(start time.Time, limit time.Duration) {
	if time.Since(start) > limit {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
}
