package charts

import (
	"strings"

	"github.com/shopspring/decimal"
)

// sparkGlyphs are the eight intensity levels, lowest first.
var sparkGlyphs = []rune("▁▂▃▄▅▆▇█")

var seven = decimal.NewFromInt(7)

// Spark is a rendered sparkline with the statistics of its input.
type Spark struct {
	Glyphs string
	// Samples are the input positions that were drawn.
	Samples []int
	Min     decimal.Decimal
	Max     decimal.Decimal
	Avg     decimal.Decimal
}

// SampleIndices returns the input positions drawn when n values are fitted
// into width cells: position floor(i*n/width) for each cell i. When the
// values fit, every position is drawn.
func SampleIndices(n, width int) []int {
	if width <= 0 || n <= width {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, width)
	for i := range out {
		out[i] = i * n / width
	}
	return out
}

// Sparkline maps values onto intensity glyphs relative to their range. When
// all values are equal the range is widened to one so every glyph is the
// lowest.
func Sparkline(values []decimal.Decimal, width int) Spark {
	if len(values) == 0 {
		return Spark{}
	}

	lo, hi, sum := values[0], values[0], decimal.Zero
	for _, v := range values {
		if v.LessThan(lo) {
			lo = v
		}
		if v.GreaterThan(hi) {
			hi = v
		}
		sum = sum.Add(v)
	}

	top := hi
	if top.Equal(lo) {
		top = lo.Add(decimal.NewFromInt(1))
	}
	span := top.Sub(lo)

	samples := SampleIndices(len(values), width)
	var b strings.Builder
	for _, idx := range samples {
		// Scale before dividing so whole-number boundaries floor exactly.
		level := int(values[idx].Sub(lo).Mul(seven).Div(span).Floor().IntPart())
		if level > len(sparkGlyphs)-1 {
			level = len(sparkGlyphs) - 1
		}
		b.WriteRune(sparkGlyphs[level])
	}

	return Spark{
		Glyphs:  b.String(),
		Samples: samples,
		Min:     lo,
		Max:     hi,
		Avg:     sum.Div(decimal.NewFromInt(int64(len(values)))),
	}
}
