package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dshills/csdocs/pkg/types"
)

// ErrUnknownFormat is returned for snapshot files with an unrecognized extension
var ErrUnknownFormat = errors.New("unknown snapshot format")

// Format is the encoding of a snapshot file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the snapshot format from a file extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Snapshot is the serialized form of a metadata model
type Snapshot struct {
	Scopes []*types.Scope `json:"scopes"`
}

// Decode decodes a snapshot. YAML documents are normalized to JSON first so
// both encodings share one set of field names and decoders.
func Decode(data []byte, format Format) (*Snapshot, error) {
	if format == FormatYAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to convert yaml: %w", err)
		}
		data = converted
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// Loader reads metadata model snapshots from disk
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a loader. A nil logger disables logging.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// LoadFile reads, decodes and links a snapshot file
func (l *Loader) LoadFile(path string) (*Model, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	snap, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	model, err := NewModel(snap.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for _, issue := range model.Issues() {
		l.logger.Warn("metadata issue",
			zap.String("scope", issue.Scope),
			zap.String("entity", issue.Entity),
			zap.String("message", issue.Message))
	}
	l.logger.Info("loaded metadata model",
		zap.String("path", path),
		zap.Int("scopes", len(model.Scopes())),
		zap.Int("types", len(model.Types())),
		zap.Int("issues", len(model.Issues())))
	return model, nil
}
