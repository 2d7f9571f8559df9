package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"busynessBuster/internal/app"
	"busynessBuster/internal/config"
)

func main() {
	configPath := flag.String("config", "config.yml", "путь к файлу конфигурации")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	application := app.New(cfg)
	if err := application.Init(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "ошибка инициализации: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "ошибка сервера: %v\n", err)
		os.Exit(1)
	}
}
