package modem

// dotProduct of the common prefix of a and b.
func dotProduct(a, b []float64) float64 {
	s := 0.0
	for i := range min(len(a), len(b)) {
		s += a[i] * b[i]
	}
	return s
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	s := 0.0
	for _, v := range x {
		s += v
	}
	return s / float64(len(x))
}

// energy is the mean of the squared samples.
func energy(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return dotProduct(x, x) / float64(len(x))
}
