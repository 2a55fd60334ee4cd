package selfplay

import "math"

// binomTest is the one-sided probability of at least a successes in
// a+b trials with success probability p.
func binomTest(a, b int64, p float64) float64 {
	n := a + b
	if n == 0 {
		return 1
	}
	var total float64
	for k := a; k <= n; k++ {
		total += math.Exp(logChoose(n, k) +
			float64(k)*math.Log(p) + float64(n-k)*math.Log1p(-p))
	}
	if total > 1 {
		total = 1
	}
	return total
}

func logChoose(n, k int64) float64 {
	ln, _ := math.Lgamma(float64(n + 1))
	lk, _ := math.Lgamma(float64(k + 1))
	lnk, _ := math.Lgamma(float64(n - k + 1))
	return ln - lk - lnk
}
