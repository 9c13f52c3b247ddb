package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const defaultOutDir = "out"

// FoundryTOML represents the parts of foundry.toml the harness reads
type FoundryTOML struct {
	Profile map[string]map[string]any `toml:"profile"`
}

// loadEnvFiles loads .env and .env.local from the project root.
// Values already present in the process environment win.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadFoundryOutDir returns the artifact directory of the default profile.
// A missing foundry.toml or a missing out key yields "out".
func loadFoundryOutDir(projectRoot string) (string, error) {
	foundryPath := filepath.Join(projectRoot, "foundry.toml")
	if _, err := os.Stat(foundryPath); os.IsNotExist(err) {
		return defaultOutDir, nil
	}

	var raw FoundryTOML
	if _, err := toml.DecodeFile(foundryPath, &raw); err != nil {
		return "", fmt.Errorf("failed to parse foundry.toml: %w", err)
	}

	profile, ok := raw.Profile["default"]
	if !ok {
		return defaultOutDir, nil
	}
	if out, ok := profile["out"].(string); ok && out != "" {
		return out, nil
	}
	return defaultOutDir, nil
}
