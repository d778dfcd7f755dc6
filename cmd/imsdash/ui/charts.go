package ui

// Mini chart renderers for the overview KPI cards. Values are scaled into
// the eight block-element heights, one rune per data point.

var blockLevels = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// BarMini renders values as a row of scaled block bars.
func BarMini(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		max = 1
	}
	out := make([]rune, 0, len(values))
	for _, v := range values {
		if v < 0 {
			v = 0
		}
		idx := int(v / max * float64(len(blockLevels)-1))
		out = append(out, blockLevels[idx])
	}
	return string(out)
}

// Sparkline renders points as a min-max normalized line of block runes.
func Sparkline(points []float64) string {
	if len(points) == 0 {
		return ""
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	span := max - min
	out := make([]rune, 0, len(points))
	for _, p := range points {
		idx := 0
		if span > 0 {
			idx = int((p - min) / span * float64(len(blockLevels)-1))
		}
		out = append(out, blockLevels[idx])
	}
	return string(out)
}
