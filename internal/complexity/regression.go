package complexity

import "math"

// fitLeastSquares returns the ordinary least-squares line y = intercept +
// slope*x. When x has no variance the fit degenerates to the mean of y.
func fitLeastSquares(x, y []float64) (slope, intercept float64) {
	n := float64(len(x))
	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var sxy, sxx float64
	for i := range x {
		dx := x[i] - meanX
		sxy += dx * (y[i] - meanY)
		sxx += dx * dx
	}
	if sxx == 0 {
		return 0, meanY
	}
	slope = sxy / sxx
	return slope, meanY - slope*meanX
}

// rootMeanSquareError compares predictions against observations.
func rootMeanSquareError(actual, predicted []float64) float64 {
	var sum float64
	for i := range actual {
		d := actual[i] - predicted[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(actual)))
}
