package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnvUp looks for ".env" in the working directory and up to maxDepth
// parents and loads the first match. Variables already set in the process
// environment win. It returns the loaded path, or "" when nothing was found.
func LoadDotEnvUp(maxDepth int) string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return loadDotEnvFrom(dir, maxDepth)
}

func loadDotEnvFrom(dir string, maxDepth int) string {
	if maxDepth <= 0 {
		maxDepth = 6
	}
	for i := 0; i <= maxDepth; i++ {
		p := filepath.Join(dir, ".env")
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err != nil {
				return ""
			}
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
