package layout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/siherrmann/lexent/helper"
	"github.com/siherrmann/lexent/model"
)

// CachePath returns the cache file of a PDF inside cacheDir.
func CachePath(pdfPath string, cacheDir string) string {
	name := filepath.Base(pdfPath)
	return filepath.Join(cacheDir, strings.TrimSuffix(name, filepath.Ext(name))+".json")
}

// LoadSegments reads segments cached at path.
func LoadSegments(path string) ([]model.SegmentBox, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, helper.NewError("read cached segments", err)
	}
	return decodeSegments(raw)
}

// LoadOrAnalyze returns the cached segments of pdfPath, analyzing and caching
// the PDF on a miss.
func (c *Client) LoadOrAnalyze(ctx context.Context, pdfPath string, cacheDir string) ([]model.SegmentBox, error) {
	path := CachePath(pdfPath, cacheDir)

	segments, err := LoadSegments(path)
	if err == nil {
		return segments, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	raw, err := c.analyzeRaw(ctx, pdfPath)
	if err != nil {
		return nil, err
	}
	segments, err = decodeSegments(raw)
	if err != nil {
		return nil, err
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, raw, "", "    "); err != nil {
		return nil, helper.NewError("indent segments", err)
	}
	if err := os.MkdirAll(cacheDir, 0o750); err != nil {
		return nil, helper.NewError("create cache dir", err)
	}
	if err := os.WriteFile(path, indented.Bytes(), 0o600); err != nil {
		return nil, helper.NewError("write cached segments", err)
	}

	return segments, nil
}
