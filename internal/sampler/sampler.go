package sampler

import (
	"math"
	"math/rand"

	"oncodash/domain/clinical"
)

// Sampler generates synthetic patient feature vectors from feature summary
// statistics. The random source is injected so sampling is deterministic
// under test.
type Sampler struct {
	rng *rand.Rand
}

// New creates a sampler over the given random source.
func New(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// severity scalar bounds for the varied fill. The draw is bimodal on
// purpose: repeated invocations must produce visibly different patient
// archetypes, not a single central tendency.
const (
	benignLow     = 0.0
	benignHigh    = 0.4
	malignantLow  = 0.6
	malignantHigh = 1.0
	jitterRange   = 0.05
)

// SampleFromDistribution fills a patient record by drawing each feature from
// a Gaussian fitted to its summary statistics, via the Box-Muller transform,
// clamped into the observed [min, max] after the transform. Features missing
// mean or std stay exactly 0.
func (s *Sampler) SampleFromDistribution(stats map[string]clinical.FeatureStat) (clinical.PatientRecord, error) {
	if len(stats) == 0 {
		return nil, clinical.ErrNoFeatureStats
	}

	record := make(clinical.PatientRecord, len(stats))
	for name, st := range stats {
		if st.Mean == nil || st.Std == nil {
			record[name] = 0
			continue
		}

		z0 := s.standardNormal()
		value := *st.Mean + z0**st.Std
		if st.Min != nil && value < *st.Min {
			value = *st.Min
		}
		if st.Max != nil && value > *st.Max {
			value = *st.Max
		}
		record[name] = roundForDisplay(value)
	}
	return record, nil
}

// SampleVaried fills a patient record by drawing one severity scalar for the
// whole invocation — benign-leaning uniform(0, 0.4) with probability 0.5,
// malignant-leaning uniform(0.6, 1.0) otherwise — then interpolating each
// feature between its min and max with independent per-feature jitter.
// Features missing min or max stay 0. Callers must clear any previously
// computed prediction afterwards; the old prediction no longer corresponds
// to the displayed features.
func (s *Sampler) SampleVaried(stats map[string]clinical.FeatureStat) (clinical.PatientRecord, error) {
	if len(stats) == 0 {
		return nil, clinical.ErrNoFeatureStats
	}

	var severity float64
	if s.rng.Float64() < 0.5 {
		severity = benignLow + s.rng.Float64()*(benignHigh-benignLow)
	} else {
		severity = malignantLow + s.rng.Float64()*(malignantHigh-malignantLow)
	}

	record := make(clinical.PatientRecord, len(stats))
	for name, st := range stats {
		if st.Min == nil || st.Max == nil {
			record[name] = 0
			continue
		}

		jittered := severity + (s.rng.Float64()*2-1)*jitterRange
		if jittered < 0 {
			jittered = 0
		}
		if jittered > 1 {
			jittered = 1
		}
		value := *st.Min + jittered*(*st.Max-*st.Min)
		record[name] = roundForDisplay(value)
	}
	return record, nil
}

// standardNormal draws one standard-normal variate via Box-Muller:
// z0 = sqrt(-2 ln u1) * cos(2 pi u2).
func (s *Sampler) standardNormal() float64 {
	u1 := s.rng.Float64()
	for u1 == 0 {
		u1 = s.rng.Float64()
	}
	u2 := s.rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// roundForDisplay applies the fixed presentation contract: values with
// absolute magnitude below 10 round to 4 decimal places, larger values to 2.
func roundForDisplay(v float64) float64 {
	if math.Abs(v) < 10 {
		return math.Round(v*1e4) / 1e4
	}
	return math.Round(v*1e2) / 1e2
}
