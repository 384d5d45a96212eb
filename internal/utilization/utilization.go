// Package utilization classifies how much of a limit has been used. Budget
// statuses, insights and progress bars share these thresholds.
package utilization

// Level classifies a utilization percentage.
type Level int

const (
	OK Level = iota
	Warning
	Over
)

// Thresholds, in percent of the limit.
const (
	WarningThreshold = 80.0
	OverThreshold    = 100.0
)

func (l Level) String() string {
	switch l {
	case Warning:
		return "warning"
	case Over:
		return "over"
	default:
		return "ok"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Classify maps a percentage to a level: over at 100 and above, warning at
// 80 and above, ok below that.
func Classify(pct float64) Level {
	switch {
	case pct >= OverThreshold:
		return Over
	case pct >= WarningThreshold:
		return Warning
	default:
		return OK
	}
}
