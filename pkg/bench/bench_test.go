package bench

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ffikit/ffikit/internal/ffi"
	"github.com/ffikit/ffikit/internal/wire"
	"github.com/ffikit/ffikit/pkg/logging"
)

func init() {
	logging.SetLogger(zap.NewNop())
}

func fixturePayload(t *testing.T) []byte {
	t.Helper()
	data, err := wire.Encode(wire.Fixture(1024))
	require.NoError(t, err)
	return data
}

func TestRunProducesResult(t *testing.T) {
	boundary := ffi.NewInProc()
	payload := fixturePayload(t)

	res, err := Run(boundary, Config{
		Implementation: "go",
		Payload:        payload,
		Iterations:     200,
	})
	require.NoError(t, err)

	require.Equal(t, "go", res.Language)
	require.Equal(t, 200, res.Iterations)
	require.Equal(t, len(payload), res.SizeBytes)
	require.Positive(t, res.DecodeNs)
	require.Positive(t, res.EncodeNs)
}

func TestRunLeavesNoNativeAllocations(t *testing.T) {
	boundary := ffi.NewInProc()

	_, err := Run(boundary, Config{
		Implementation: "go",
		Payload:        fixturePayload(t),
		Iterations:     50,
		Warmup:         5,
	})
	require.NoError(t, err)

	handles, buffers, errors := boundary.Live()
	require.Zero(t, handles)
	require.Zero(t, buffers)
	require.Zero(t, errors)
}

// TestRunDeterminismBand is a stability smoke test, not a performance
// assertion: two identical runs should land within a generous band.
func TestRunDeterminismBand(t *testing.T) {
	boundary := ffi.NewInProc()
	cfg := Config{Implementation: "go", Payload: fixturePayload(t), Iterations: 500}

	first, err := Run(boundary, cfg)
	require.NoError(t, err)
	second, err := Run(boundary, cfg)
	require.NoError(t, err)

	diff := math.Abs(float64(first.DecodeNs - second.DecodeNs))
	require.Less(t, diff/float64(first.DecodeNs), 0.5,
		"decode means diverged beyond the 50%% band: %d vs %d", first.DecodeNs, second.DecodeNs)
}

func TestRunAbortsOnBadPayload(t *testing.T) {
	boundary := ffi.NewInProc()

	res, err := Run(boundary, Config{
		Implementation: "go",
		Payload:        []byte("not a message"),
		Iterations:     10,
		Warmup:         2,
	})
	require.Nil(t, res, "no partial result on failure")

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	require.Equal(t, "warmup", runErr.Phase)
	require.Equal(t, 0, runErr.Iteration)
}

func TestRunValidatesConfig(t *testing.T) {
	boundary := ffi.NewInProc()
	payload := fixturePayload(t)

	_, err := Run(boundary, Config{Implementation: "go", Iterations: 10})
	require.Error(t, err, "empty payload")

	_, err = Run(boundary, Config{Implementation: "go", Payload: payload})
	require.Error(t, err, "zero iterations")

	_, err = Run(boundary, Config{Implementation: "go", Payload: payload, Iterations: 10, Warmup: 20})
	require.Error(t, err, "warmup beyond iterations")
}

func TestAggregate(t *testing.T) {
	samples := []int64{100, 10, 10, 10, 10, 10, 10, 10, 10, 1}

	require.Equal(t, int64(18), aggregate(samples, MeanAll, 1))
	// Trimmed: drop 1 and 100, mean of the remaining eight tens.
	require.Equal(t, int64(10), aggregate(samples, TrimmedMean, 1))
	// Trim that would consume everything falls back to the plain mean.
	require.Equal(t, int64(18), aggregate(samples, TrimmedMean, 5))
}
