// Package results persists and loads benchmark result records. A results
// store is a directory of JSON files, each holding one record or an array
// of records; records from every binding and language land in the same
// directory and are merged by their language field.
package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ffikit/ffikit/pkg/bench"
	"github.com/ffikit/ffikit/pkg/logging"
)

// Save appends res to the store directory as its own file named
// <language>-<run uuid>.json, creating the directory if needed. The
// language field is mandatory for persisted records since the comparator
// merges by it.
func Save(dir string, res *bench.Result) (string, error) {
	if res.Language == "" {
		return "", fmt.Errorf("results: refusing to persist record without language")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("results: create store %q: %w", dir, err)
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("results: marshal record: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.json", res.Language, uuid.NewString()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("results: write %q: %w", path, err)
	}
	return path, nil
}

// Load reads every *.json file in the store and returns all well-formed
// records. A file that does not match the record shape, or a record
// without a language, is skipped with a warning; one bad file never aborts
// the merge.
func Load(dir string) ([]bench.Result, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("results: scan store %q: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("results: no result files in %q", dir)
	}

	var records []bench.Result
	for _, path := range paths {
		recs, err := loadFile(path)
		if err != nil {
			logging.Warn("skipping malformed result file",
				zap.String("path", path), zap.Error(err))
			continue
		}
		records = append(records, recs...)
	}
	return records, nil
}

// loadFile strictly decodes one result file, which may hold a single
// record or an array of records.
func loadFile(path string) ([]bench.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	var records []bench.Result
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := strictUnmarshal(data, &records); err != nil {
			return nil, err
		}
	} else {
		var rec bench.Result
		if err := strictUnmarshal(data, &rec); err != nil {
			return nil, err
		}
		records = []bench.Result{rec}
	}

	for i, rec := range records {
		if rec.Language == "" {
			return nil, fmt.Errorf("record %d: missing language", i)
		}
		if rec.DecodeNs < 0 || rec.EncodeNs < 0 {
			return nil, fmt.Errorf("record %d: negative duration", i)
		}
	}
	return records, nil
}

// strictUnmarshal rejects unknown fields and trailing content so shape
// drift fails loudly instead of being scraped heuristically.
func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing content after record")
	}
	return nil
}
