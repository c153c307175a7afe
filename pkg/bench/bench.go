// Package bench drives repeated decode/encode cycles through the codec
// binding and aggregates per-call wall-clock samples into a result record.
// Runs are strictly sequential so each sample isolates one boundary call.
package bench

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ffikit/ffikit/internal/ffi"
	"github.com/ffikit/ffikit/pkg/codec"
	"github.com/ffikit/ffikit/pkg/logging"
)

// Aggregation selects how per-call samples collapse into one statistic.
type Aggregation int

const (
	// MeanAll is the plain arithmetic mean over all samples. This is the
	// default and matches the cross-language benchmark executables.
	MeanAll Aggregation = iota
	// TrimmedMean sorts the samples and drops the lowest and highest
	// Warmup-count samples before averaging, the policy of the pure
	// language micro-benchmarks. Results aggregated with different
	// policies are not comparable; pick one per results store.
	TrimmedMean
)

func (a Aggregation) String() string {
	if a == TrimmedMean {
		return "trimmed_mean"
	}
	return "mean"
}

// Config parameterizes one benchmark run.
type Config struct {
	// Implementation identifies the binding under test ("go", "cpp",
	// "python", ...). Recorded as the result's language.
	Implementation string
	// Payload is the pre-encoded fixture, loaded once and reused for
	// every iteration.
	Payload []byte
	// Iterations is the measured sample count N.
	Iterations int
	// Warmup is the discarded cycle count W; defaults to Iterations/10.
	Warmup int
	// Aggregation is the sample collapse policy.
	Aggregation Aggregation
}

// Result is the persisted record of one run.
type Result struct {
	DecodeNs   int64  `json:"decode_ns"`
	EncodeNs   int64  `json:"encode_ns"`
	SizeBytes  int    `json:"size_bytes"`
	Iterations int    `json:"iterations"`
	Language   string `json:"language,omitempty"`
}

// RunError reports a boundary failure during measurement. The run it
// belongs to produced no result.
type RunError struct {
	Phase     string // "warmup", "decode", or "encode"
	Iteration int
	Err       error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("benchmark %s iteration %d: %v", e.Phase, e.Iteration, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// Run executes warmup, timed decode, and timed encode phases against abi
// and returns the aggregated result. Any decode or encode failure aborts
// the run; partial timings are discarded.
func Run(abi ffi.ABI, cfg Config) (*Result, error) {
	if len(cfg.Payload) == 0 {
		return nil, fmt.Errorf("benchmark: empty payload")
	}
	if cfg.Iterations <= 0 {
		return nil, fmt.Errorf("benchmark: iterations must be positive, got %d", cfg.Iterations)
	}
	warmup := cfg.Warmup
	if warmup <= 0 {
		warmup = cfg.Iterations / 10
	}
	if warmup > cfg.Iterations {
		return nil, fmt.Errorf("benchmark: warmup %d exceeds iterations %d", warmup, cfg.Iterations)
	}

	runID := uuid.NewString()
	logging.Info("benchmark run starting",
		zap.String("run_id", runID),
		zap.String("implementation", cfg.Implementation),
		zap.Int("iterations", cfg.Iterations),
		zap.Int("warmup", warmup),
		zap.Int("payload_bytes", len(cfg.Payload)),
		zap.Stringer("aggregation", cfg.Aggregation))

	if err := warmUp(abi, cfg.Payload, warmup); err != nil {
		return nil, err
	}

	decodeSamples, err := measureDecode(abi, cfg.Payload, cfg.Iterations)
	if err != nil {
		return nil, err
	}

	encodeSamples, size, err := measureEncode(abi, cfg.Payload, cfg.Iterations)
	if err != nil {
		return nil, err
	}

	res := &Result{
		DecodeNs:   aggregate(decodeSamples, cfg.Aggregation, warmup),
		EncodeNs:   aggregate(encodeSamples, cfg.Aggregation, warmup),
		SizeBytes:  size,
		Iterations: cfg.Iterations,
		Language:   cfg.Implementation,
	}
	logging.Info("benchmark run complete",
		zap.String("run_id", runID),
		zap.Int64("decode_ns", res.DecodeNs),
		zap.Int64("encode_ns", res.EncodeNs),
		zap.Int("size_bytes", res.SizeBytes))
	return res, nil
}

// warmUp runs full decode/encode cycles, releasing every resource
// immediately and discarding all timings. It settles lazy initialization
// and allocator state before measurement.
func warmUp(abi ffi.ABI, payload []byte, count int) error {
	for i := 0; i < count; i++ {
		msg, err := codec.Decode(abi, payload)
		if err != nil {
			return &RunError{Phase: "warmup", Iteration: i, Err: err}
		}
		if _, err := msg.Encode(); err != nil {
			msg.Release()
			return &RunError{Phase: "warmup", Iteration: i, Err: err}
		}
		msg.Release()
	}
	return nil
}

// measureDecode times one decode call per iteration. Handle release
// happens after the clock stops so it never pollutes a sample.
func measureDecode(abi ffi.ABI, payload []byte, iterations int) ([]int64, error) {
	samples := make([]int64, iterations)
	for i := 0; i < iterations; i++ {
		start := time.Now()
		msg, err := codec.Decode(abi, payload)
		elapsed := time.Since(start)
		if err != nil {
			return nil, &RunError{Phase: "decode", Iteration: i, Err: err}
		}
		msg.Release()
		samples[i] = elapsed.Nanoseconds()
	}
	return samples, nil
}

// measureEncode decodes one message outside the timed region, then times
// one encode call per iteration. The returned size is the last successful
// encode's byte count. Each iteration's native buffer is copied and freed
// inside the timed encode call itself; nothing native survives between
// iterations.
func measureEncode(abi ffi.ABI, payload []byte, iterations int) ([]int64, int, error) {
	msg, err := codec.Decode(abi, payload)
	if err != nil {
		return nil, 0, &RunError{Phase: "encode", Iteration: 0, Err: err}
	}
	defer msg.Release()

	samples := make([]int64, iterations)
	size := 0
	for i := 0; i < iterations; i++ {
		start := time.Now()
		encoded, err := msg.Encode()
		elapsed := time.Since(start)
		if err != nil {
			return nil, 0, &RunError{Phase: "encode", Iteration: i, Err: err}
		}
		size = len(encoded)
		samples[i] = elapsed.Nanoseconds()
	}
	return samples, size, nil
}

// aggregate collapses samples per the selected policy. TrimmedMean drops
// the trim lowest and trim highest samples; if trimming would consume the
// whole sample set it falls back to the plain mean.
func aggregate(samples []int64, policy Aggregation, trim int) int64 {
	if policy == TrimmedMean && len(samples) > 2*trim {
		sorted := make([]int64, len(samples))
		copy(sorted, samples)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		samples = sorted[trim : len(sorted)-trim]
	}
	var sum int64
	for _, s := range samples {
		sum += s
	}
	return sum / int64(len(samples))
}
