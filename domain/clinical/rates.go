package clinical

// Rates holds the clinical rates derived from confusion counts. A nil field
// means the rate is undefined because its denominator was zero; callers must
// never substitute a default rate. All values are fractions in [0,1] and are
// only scaled by 100 at the presentation boundary.
type Rates struct {
	Recall      *float64 `json:"recall"`
	Specificity *float64 `json:"specificity"`
	FNR         *float64 `json:"fnr"`
	FPR         *float64 `json:"fpr"`
}

// DeriveRates computes recall, specificity, FNR and FPR from raw confusion
// counts. Each rate is nil when its denominator is zero.
func DeriveRates(c Confusion) Rates {
	var r Rates
	if pos := c.TP + c.FN; pos > 0 {
		recall := float64(c.TP) / float64(pos)
		fnr := float64(c.FN) / float64(pos)
		r.Recall = &recall
		r.FNR = &fnr
	}
	if neg := c.TN + c.FP; neg > 0 {
		spec := float64(c.TN) / float64(neg)
		fpr := float64(c.FP) / float64(neg)
		r.Specificity = &spec
		r.FPR = &fpr
	}
	return r
}

// Severity classifies a model's false-negative rate for the clinical banner.
type Severity string

const (
	SeveritySafe    Severity = "safe"
	SeverityWarn    Severity = "warn"
	SeverityBad     Severity = "bad"
	SeverityUnknown Severity = "unknown"
)

// FNRWarnThreshold is the fixed cutoff between warn and bad. It is a design
// constant, not derived from data.
const FNRWarnThreshold = 0.02

// ClassifySeverity maps a false-negative rate to its banner severity.
// A nil rate (undefined denominator) classifies as unknown.
func ClassifySeverity(fnr *float64) Severity {
	switch {
	case fnr == nil:
		return SeverityUnknown
	case *fnr == 0:
		return SeveritySafe
	case *fnr <= FNRWarnThreshold:
		return SeverityWarn
	default:
		return SeverityBad
	}
}
