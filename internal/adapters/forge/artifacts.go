package forge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/socket-protocol/evmx-integration/internal/domain/config"
	"github.com/socket-protocol/evmx-integration/internal/usecase"
)

// artifactFile is the subset of a Foundry artifact the loader reads
type artifactFile struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode struct {
		Object string `json:"object"`
	} `json:"bytecode"`
}

// ArtifactLoader reads out/<Name>.sol/<Name>.json artifacts and caches them
type ArtifactLoader struct {
	outDir string

	mu    sync.Mutex
	cache map[string]*usecase.ContractArtifact
}

// NewArtifactLoader creates a loader rooted at the configured Foundry output directory
func NewArtifactLoader(cfg *config.RuntimeConfig) *ArtifactLoader {
	outDir := cfg.OutDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(cfg.ProjectRoot, outDir)
	}
	return &ArtifactLoader{
		outDir: outDir,
		cache:  make(map[string]*usecase.ContractArtifact),
	}
}

// Path returns the artifact location for a contract name
func (l *ArtifactLoader) Path(name string) string {
	return filepath.Join(l.outDir, name+".sol", name+".json")
}

// Load parses the artifact for a contract
func (l *ArtifactLoader) Load(name string) (*usecase.ContractArtifact, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if a, ok := l.cache[name]; ok {
		return a, nil
	}

	path := l.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact for %s: %w", name, err)
	}

	var raw artifactFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", name, err)
	}

	if raw.Bytecode.Object == "" || raw.Bytecode.Object == "0x" {
		return nil, fmt.Errorf("artifact %s has no bytecode", name)
	}
	bytecode, err := hexutil.Decode(raw.Bytecode.Object)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode in artifact %s: %w", name, err)
	}

	artifact := &usecase.ContractArtifact{Name: name, ABI: &parsed, Bytecode: bytecode}
	l.cache[name] = artifact
	return artifact, nil
}

// Ensure the adapter implements the interface
var _ usecase.ArtifactStore = (*ArtifactLoader)(nil)
