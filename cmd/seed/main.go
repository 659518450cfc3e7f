package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-blog-clean-architecture/config"
	"github.com/oksasatya/go-blog-clean-architecture/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	username := "demo"
	password := "demo1234"
	email := "demo@example.com"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID int64
	err = db.QueryRow(`
		INSERT INTO users (username, password, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email
		RETURNING id
	`, username, hash, email).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d username=%s password=%s\n", userID, username, password)

	boards := []struct{ title, content string }{
		{"Hello, world", "First post on the demo blog."},
		{"Second post", "Boards list newest first, so this one shows on top."},
	}
	for _, b := range boards {
		var boardID int64
		if err := db.QueryRow(`
			INSERT INTO boards (title, content, owner_id)
			VALUES ($1, $2, $3)
			RETURNING id
		`, b.title, b.content, userID).Scan(&boardID); err != nil {
			log.Fatalf("failed to seed board: %v", err)
		}
		fmt.Printf("seeded board: id=%d title=%q\n", boardID, b.title)
	}
}
