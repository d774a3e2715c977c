package utils

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("ℹ️  No .env file found, continuing...")
	}
}

// MaxIndexes returns the per-entity index limit, overridable through
// BLOCKSCHEMA_MAX_INDEXES. Zero means the planner default.
func MaxIndexes() int {
	v := os.Getenv("BLOCKSCHEMA_MAX_INDEXES")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("⚠️  Ignoring invalid BLOCKSCHEMA_MAX_INDEXES=%q", v)
		return 0
	}
	return n
}
