package calorie

// Unit conversion factors and detection thresholds.
const (
	poundsPerKilogram = 2.20462
	feetPerMeter      = 3.28084

	// Values below these thresholds are assumed to be metric.
	weightMetricThreshold = 100 // kg vs lbs
	heightMetricThreshold = 10  // m vs target unit
)

// NormalizeWeight heuristically normalizes a weight value to pounds.
// Values below 100 are treated as kilograms and converted; anything else is
// assumed to already be pounds and passed through unchanged.
//
// This is a heuristic over an untagged number, not a unit-aware conversion.
// It is ambiguous for edge inputs (a 95 lb person is treated as 95 kg). The
// behavior is a known limitation carried over deliberately; callers must not
// rely on it for values near the threshold.
func NormalizeWeight(value float64) float64 {
	if value < weightMetricThreshold {
		return value * poundsPerKilogram
	}
	return value
}

// NormalizeHeight heuristically normalizes a height value. Values below 10
// are treated as meters and converted with the meters-to-feet factor;
// anything else is assumed to already be in the target unit (inches) and
// passed through unchanged.
//
// Same caveat as NormalizeWeight: the detection is heuristic and ambiguous
// near the threshold. Note the asymmetry - metric inputs are scaled by the
// feet factor while the pass-through unit is inches. That mismatch exists in
// the behavior this engine preserves and is intentionally not corrected here.
func NormalizeHeight(value float64) float64 {
	if value < heightMetricThreshold {
		return value * feetPerMeter
	}
	return value
}
