package broadcast

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/config"
	"github.com/socket-protocol/evmx-integration/internal/usecase"
)

// Parser handles parsing of Foundry broadcast files
type Parser struct {
	projectRoot string
}

// NewParser creates a new broadcast file parser
func NewParser(cfg *config.RuntimeConfig) *Parser {
	return &Parser{
		projectRoot: cfg.ProjectRoot,
	}
}

// ParseBroadcastFile parses a broadcast file
func (p *Parser) ParseBroadcastFile(file string) (*domain.BroadcastFile, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read broadcast file: %w", err)
	}

	var broadcast domain.BroadcastFile
	if err := json.Unmarshal(data, &broadcast); err != nil {
		return nil, fmt.Errorf("failed to parse broadcast file: %w", err)
	}

	return &broadcast, nil
}

// ReadLatest parses the latest broadcast file for a given script and chain
func (p *Parser) ReadLatest(scriptName string, chainID uint64) (*domain.BroadcastFile, error) {
	latestFile := filepath.Join(p.BroadcastPath(scriptName, chainID), "run-latest.json")

	if _, err := os.Stat(latestFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("broadcast file not found: %s", latestFile)
	}

	return p.ParseBroadcastFile(latestFile)
}

// BroadcastPath returns broadcast/<script>.s.sol/<chain>.
// The script may be given with or without its .s.sol suffix.
func (p *Parser) BroadcastPath(scriptName string, chainID uint64) string {
	script := strings.TrimSuffix(filepath.Base(scriptName), ".s.sol") + ".s.sol"
	return filepath.Join(p.projectRoot, "broadcast", script, fmt.Sprintf("%d", chainID))
}

// Ensure the adapter implements the interface
var _ usecase.BroadcastReader = (*Parser)(nil)
