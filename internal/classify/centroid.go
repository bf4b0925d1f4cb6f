package classify

import (
	"errors"
	"math"
)

// CentroidClassifier classifies a feature vector by its distance to one
// stored centroid per class. Distances are mapped to scores with
// 1/(1+d) and normalized into a probability distribution, so a vector
// sitting on a centroid approaches probability 1 for that class.
type CentroidClassifier struct {
	centroids [][]float64
	width     int
}

// NewCentroidClassifier creates a classifier from one centroid per
// class, indexed by class id. All centroids must share the same width.
func NewCentroidClassifier(centroids [][]float64) (*CentroidClassifier, error) {
	if len(centroids) == 0 {
		return nil, errors.New("at least one class centroid is required")
	}

	width := len(centroids[0])
	if width == 0 {
		return nil, errors.New("centroids must not be empty")
	}

	for _, c := range centroids {
		if len(c) != width {
			return nil, errors.New("all centroids must have the same width")
		}
	}

	return &CentroidClassifier{centroids: centroids, width: width}, nil
}

// Width returns the feature vector width the classifier expects.
func (c *CentroidClassifier) Width() int {
	return c.width
}

// Classify computes the distribution over classes for the given vector.
func (c *CentroidClassifier) Classify(features []float64) (Prediction, error) {
	if len(features) != c.width {
		return Prediction{}, ErrDimensionMismatch
	}

	probs := make([]float64, len(c.centroids))
	var total float64

	for i, centroid := range c.centroids {
		score := 1.0 / (1.0 + euclideanDistance(features, centroid))
		probs[i] = score
		total += score
	}

	best := 0
	for i := range probs {
		probs[i] /= total
		if probs[i] > probs[best] {
			best = i
		}
	}

	return Prediction{
		Class:      best,
		Confidence: probs[best],
		Probs:      probs,
	}, nil
}

// euclideanDistance calculates the Euclidean distance between two
// vectors of equal length.
func euclideanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
