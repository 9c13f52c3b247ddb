package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/config"
	"github.com/socket-protocol/evmx-integration/internal/usecase"
	"gopkg.in/yaml.v3"
)

// ReportWriterAdapter persists run reports as YAML
type ReportWriterAdapter struct {
	projectRoot string
}

// NewReportWriterAdapter creates a new ReportWriterAdapter.
// Relative report paths are resolved against the project root.
func NewReportWriterAdapter(cfg *config.RuntimeConfig) *ReportWriterAdapter {
	return &ReportWriterAdapter{projectRoot: cfg.ProjectRoot}
}

// WriteReport writes the report, creating the directory if needed
func (w *ReportWriterAdapter) WriteReport(path string, report *domain.RunReport) error {
	path = w.resolve(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// ReadReport loads a report written by WriteReport
func (w *ReportWriterAdapter) ReadReport(path string) (*domain.RunReport, error) {
	data, err := os.ReadFile(w.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var report domain.RunReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report file: %w", err)
	}
	return &report, nil
}

func (w *ReportWriterAdapter) resolve(path string) string {
	if filepath.IsAbs(path) || w.projectRoot == "" {
		return path
	}
	return filepath.Join(w.projectRoot, path)
}

// Ensure ReportWriterAdapter implements ReportWriter
var _ usecase.ReportWriter = (*ReportWriterAdapter)(nil)
