// Package export writes analysis reports to disk as JSON documents,
// zstd-compressed when the target name ends in .zst.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"codescope/internal/logging"
)

// Exporter serializes report payloads to files.
type Exporter struct {
	logger *logging.Logger

	// Pretty indents the JSON output.
	Pretty bool
}

// NewExporter creates an exporter writing indented JSON.
func NewExporter(logger *logging.Logger) *Exporter {
	return &Exporter{logger: logger, Pretty: true}
}

// Export writes the payload to path. A .zst suffix selects zstd compression
// of the JSON document. Parent directories are created as needed.
func (e *Exporter) Export(path string, payload interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var w io.Writer = f
	var enc *zstd.Encoder
	if strings.HasSuffix(path, ".zst") {
		enc, err = zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("failed to initialize compressor: %w", err)
		}
		w = enc
	}

	if err := e.writeJSON(w, payload); err != nil {
		return err
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to finish compression: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	e.logger.Info("Exported report", map[string]interface{}{
		"path":       path,
		"compressed": enc != nil,
	})
	return nil
}

func (e *Exporter) writeJSON(w io.Writer, payload interface{}) error {
	encoder := json.NewEncoder(w)
	if e.Pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// Read loads an exported document back into target, transparently
// decompressing .zst files.
func Read(path string, target interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open export file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("failed to initialize decompressor: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	if err := json.NewDecoder(r).Decode(target); err != nil {
		return fmt.Errorf("failed to decode export file: %w", err)
	}
	return nil
}
