// Package compare computes cross-implementation performance ratios from
// persisted benchmark results and classifies implementation maturity
// against a reference system's ratio.
package compare

import (
	"fmt"
	"math"
	"sort"

	"github.com/ffikit/ffikit/pkg/bench"
)

// baselineProbe is the candidate order tried when no baseline is given.
var baselineProbe = []string{"cpp", "Cpp", "C++", "go"}

// BaselineNotFoundError reports that the requested baseline implementation
// has no records in the grouped data.
type BaselineNotFoundError struct {
	Baseline string
	Known    []string
}

func (e *BaselineNotFoundError) Error() string {
	return fmt.Sprintf("baseline %q not found (have %v)", e.Baseline, e.Known)
}

// GroupMeans groups records by language and returns each group's plain
// arithmetic mean of the decode statistic. Inputs are per-run means
// already, so no trimming is applied here.
func GroupMeans(records []bench.Result) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, rec := range records {
		sums[rec.Language] += float64(rec.DecodeNs)
		counts[rec.Language]++
	}
	means := make(map[string]float64, len(sums))
	for lang, sum := range sums {
		means[lang] = sum / float64(counts[lang])
	}
	return means
}

// Ratios divides every group mean by the baseline group's mean. A ratio of
// 1.0 is parity; fractions are faster than baseline. When baseline is
// empty the candidate set cpp/Cpp/C++/go is probed in order.
func Ratios(means map[string]float64, baseline string) (map[string]float64, error) {
	if baseline == "" {
		found := false
		for _, candidate := range baselineProbe {
			if _, ok := means[candidate]; ok {
				baseline = candidate
				found = true
				break
			}
		}
		if !found {
			return nil, &BaselineNotFoundError{Baseline: "(probed)", Known: knownLanguages(means)}
		}
	}
	base, ok := means[baseline]
	if !ok {
		return nil, &BaselineNotFoundError{Baseline: baseline, Known: knownLanguages(means)}
	}
	ratios := make(map[string]float64, len(means))
	for lang, mean := range means {
		ratios[lang] = mean / base
	}
	return ratios, nil
}

func knownLanguages(means map[string]float64) []string {
	langs := make([]string, 0, len(means))
	for lang := range means {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Maturity is the qualitative judgment of a binding's overhead ratio
// against the reference system's ratio.
type Maturity string

const (
	// Comparable: the binding's slowdown is within tolerance of the
	// reference system's slowdown.
	Comparable Maturity = "comparable"
	// Acceptable: competitive but not within the comparable band.
	Acceptable Maturity = "acceptable"
	// Regressed: significantly slower than the reference ratio predicts;
	// an optimization opportunity.
	Regressed Maturity = "regressed"
)

// Policy holds the classification thresholds. These are policy constants,
// not derived values; override them only with documentation on both sides
// of a comparison.
type Policy struct {
	// ComparableDelta is the maximum relative difference |Ra-Rb|/Ra for
	// a comparable classification.
	ComparableDelta float64
	// RegressedFactor marks regression when Rb exceeds Ra by this factor.
	RegressedFactor float64
}

// DefaultPolicy matches the reference analysis: within 30% is comparable,
// beyond 2x the reference ratio is regressed.
func DefaultPolicy() Policy {
	return Policy{ComparableDelta: 0.3, RegressedFactor: 2.0}
}

// Classify compares a measured ratio against the reference system's ratio.
func (p Policy) Classify(referenceRatio, measuredRatio float64) Maturity {
	if math.Abs(referenceRatio-measuredRatio)/referenceRatio < p.ComparableDelta {
		return Comparable
	}
	if measuredRatio > p.RegressedFactor*referenceRatio {
		return Regressed
	}
	return Acceptable
}
