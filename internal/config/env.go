package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envFiles are read from the config file's directory. Values already set in
// the process environment win, so GITHUB_TOKEN from the shell is kept.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads every env file found next to configPath and returns
// the ones it read.
func loadEnvFiles(configPath string) ([]string, error) {
	dir := filepath.Dir(configPath)
	var loaded []string
	for _, name := range envFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return loaded, err
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}
