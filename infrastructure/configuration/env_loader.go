package configuration

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"

	"github.com/Pawissanan/Get-YouTube-View/infrastructure/logger"
)

// LoadEnvFromFile loads KEY=VALUE pairs from one or more files (e.g., config.env, .env).
// Missing files are skipped. Existing env vars are not overridden.
func LoadEnvFromFile(paths ...string) {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			logger.GetLogger().WithField("error", err).WithField("file", p).Warn("Failed to load env file")
		}
	}
}
