package infra

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Initialize は ENV_FILE (既定 .env) を読み込む。既に設定済みの環境変数は上書きしない
func Initialize() bool {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("No %s file found; using environment variables", path)
		} else {
			log.Printf("Failed to load %s: %v", path, err)
		}
		return false
	}
	return true
}
