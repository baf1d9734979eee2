package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env from the working directory and from dir into the
// process environment. Variables already set win, and missing files are
// ignored.
func LoadEnv(dir string) {
	for _, path := range []string{EnvFileName, filepath.Join(dir, EnvFileName)} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}

// applyEnv overlays environment variables on the loaded config.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvJWTSecret); v != "" {
		c.Session.Secret = v
	}
	if v := os.Getenv(EnvCredentials); v != "" {
		c.Backend.Firestore.CredentialsFile = v
	}
}

// OutputFormat returns the TASKFLOW_OUTPUT override, if any.
func OutputFormat() string {
	return os.Getenv(EnvOutput)
}
