package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"busynessBuster/internal/config"
	"busynessBuster/internal/logger"
	"busynessBuster/internal/models/user"
	"busynessBuster/internal/repository/postgres"
	"busynessBuster/internal/service"
)

// Регистрации через API нет: единственный пользователь заводится этой
// утилитой напрямую в базе.
func main() {
	configPath := flag.String("config", "config.yml", "путь к файлу конфигурации")
	username := flag.String("username", "", "логин нового пользователя")
	password := flag.String("password", "", "пароль нового пользователя")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "нужны --username и --password")
		os.Exit(1)
	}
	if len(*password) > 72 {
		fmt.Fprintln(os.Stderr, "пароль длиннее 72 байт не поддерживается bcrypt")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Development); err != nil {
		fmt.Fprintf(os.Stderr, "инициализация логгера: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	store, err := postgres.New(ctx, cfg.Database.URL, postgres.PoolConfig{
		MaxConns:    cfg.Database.MaxConnections,
		MinConns:    cfg.Database.MinConnections,
		IdleTimeout: cfg.Database.IdleTimeout,
	}, cfg.Database.MigrationsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "подключение к базе: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "миграции: %v\n", err)
		os.Exit(1)
	}

	existing, err := store.ListUsers(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "проверка пользователей: %v\n", err)
		os.Exit(1)
	}
	if len(existing) > 0 {
		fmt.Fprintf(os.Stderr, "пользователь уже существует (%s), повторный посев не выполняется\n", existing[0].Username)
		os.Exit(1)
	}

	hash, err := service.HashPassword(*password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "хеширование пароля: %v\n", err)
		os.Exit(1)
	}

	u := &user.User{
		Username:     *username,
		PasswordHash: hash,
	}
	if err := store.CreateUser(ctx, u); err != nil {
		fmt.Fprintf(os.Stderr, "создание пользователя: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Пользователь %s создан (id=%d)\n", u.Username, u.ID)
}
