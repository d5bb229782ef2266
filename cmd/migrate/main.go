package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"boardcamp/config"
	"boardcamp/internal/pkg/database"
)

// Uso: go run ./cmd/migrate [up|down|status|redo|reset|version|up-to N|down-to N]
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Aviso: arquivo .env não encontrado. Usando apenas o ambiente do sistema: %v", err)
	}

	cfg := config.LoadConfig()
	flag.Parse()

	db, err := database.NewPostgresDB(cfg.DatabaseURL, database.DefaultPoolConfig())
	if err != nil {
		log.Fatalf("goose: falha ao conectar ao banco: %v\n", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("goose: falha ao fechar o banco: %v\n", err)
		}
	}()

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}

	command := arguments[0]
	if err := database.Migrate(context.Background(), db, command, arguments[1:]...); err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("goose %s: sucesso\n", command)
}
