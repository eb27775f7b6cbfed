package view

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline — кривая кумулятивного профита в одну строку терминала.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}
	if width > 0 && len(values) > width {
		// прореживаем до ширины, последняя точка всегда остаётся
		step := float64(len(values)-1) / float64(width-1)
		sampled := make([]float64, 0, width)
		for i := 0; i < width; i++ {
			sampled = append(sampled, values[int(float64(i)*step+0.5)])
		}
		values = sampled
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	out := make([]rune, len(values))
	span := hi - lo
	for i, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkRunes)-1))
		}
		out[i] = sparkRunes[idx]
	}
	return string(out)
}
