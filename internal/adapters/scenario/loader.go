package scenario

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Loader reads scenario files
type Loader struct {
	fs       fs.FS
	validate *validator.Validate
}

// NewLoader creates a loader reading from filesystem. A nil filesystem reads
// paths from the OS directly.
func NewLoader(filesystem fs.FS) *Loader {
	return &Loader{fs: filesystem, validate: validator.New()}
}

// Load reads, validates and builds the scenario at path
func (l *Loader) Load(ctx context.Context, path string) (*World, error) {
	data, err := l.read(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return l.Parse(data)
}

// Parse validates and builds a scenario from YAML
func (l *Loader) Parse(data []byte) (*World, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := l.validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	world, err := Build(doc)
	if err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return world, nil
}

func (l *Loader) read(path string) ([]byte, error) {
	if l.fs == nil {
		return os.ReadFile(path)
	}
	return fs.ReadFile(l.fs, path)
}
