package results

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ffikit/ffikit/pkg/bench"
	"github.com/ffikit/ffikit/pkg/logging"
)

func init() {
	logging.SetLogger(zap.NewNop())
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()

	res := &bench.Result{DecodeNs: 5000, EncodeNs: 4000, SizeBytes: 1024, Iterations: 1000, Language: "go"}
	path, err := Save(dir, res)
	require.NoError(t, err)
	require.FileExists(t, path)

	records, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, *res, records[0])
}

func TestSaveRequiresLanguage(t *testing.T) {
	_, err := Save(t.TempDir(), &bench.Result{DecodeNs: 1})
	require.Error(t, err)
}

func TestLoadMergesArrayAndSingleFiles(t *testing.T) {
	dir := t.TempDir()

	single := `{"decode_ns": 150000, "encode_ns": 120000, "size_bytes": 7500, "iterations": 1000, "language": "python"}`
	array := `[
		{"decode_ns": 5000, "encode_ns": 4000, "size_bytes": 7500, "iterations": 1000, "language": "cpp"},
		{"decode_ns": 5200, "encode_ns": 4100, "size_bytes": 7500, "iterations": 1000, "language": "cpp"}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "python.json"), []byte(single), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cpp.json"), []byte(array), 0o644))

	records, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, records, 3)
}

func TestLoadSkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()

	good := `{"decode_ns": 5000, "encode_ns": 4000, "size_bytes": 7500, "iterations": 1000, "language": "cpp"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.json"), []byte(good), 0o644))

	malformed := map[string]string{
		"not-json.json":      `decode: fast, trust me`,
		"unknown-field.json": `{"decode_ns": 1, "encode_ns": 1, "size_bytes": 1, "iterations": 1, "language": "x", "extra": true}`,
		"no-language.json":   `{"decode_ns": 1, "encode_ns": 1, "size_bytes": 1, "iterations": 1}`,
		"negative.json":      `{"decode_ns": -5, "encode_ns": 1, "size_bytes": 1, "iterations": 1, "language": "x"}`,
	}
	for name, content := range malformed {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	records, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, records, 1, "only the well-formed record survives")
	require.Equal(t, "cpp", records[0].Language)
}

func TestLoadEmptyStoreFails(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}
