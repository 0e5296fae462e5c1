package tracking

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	EnvDatabricksHost  = "DATABRICKS_HOST"
	EnvDatabricksToken = "DATABRICKS_TOKEN"
	EnvTrackingURI     = "MLFLOW_TRACKING_URI"
	EnvExperimentID    = "MLFLOW_EXPERIMENT_ID"
)

// EnvVars are the only variables LoadEnv copies from a .env file.
var EnvVars = []string{EnvDatabricksHost, EnvDatabricksToken, EnvTrackingURI, EnvExperimentID}

// LoadEnv reads a .env file and copies EnvVars from it into the process
// environment; every other entry is ignored. With an empty path, the first
// .env found from the working directory upward is used, and a missing file
// is not an error. It returns the resulting value of each of EnvVars.
func LoadEnv(dotenvPath string) (map[string]string, error) {
	if dotenvPath == "" {
		found, err := findDotEnv()
		if err != nil {
			return nil, err
		}
		dotenvPath = found
	}

	if dotenvPath != "" {
		values, err := godotenv.Read(dotenvPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", dotenvPath, err)
		}
		for _, key := range EnvVars {
			if v, ok := values[key]; ok {
				if err := os.Setenv(key, v); err != nil {
					return nil, err
				}
			}
		}
	}

	env := make(map[string]string, len(EnvVars))
	for _, key := range EnvVars {
		env[key] = os.Getenv(key)
	}
	return env, nil
}

func findDotEnv() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(wd, ".env")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			return "", nil
		}
		wd = parent
	}
}
