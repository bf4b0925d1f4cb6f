// Package classify defines the classifier boundary consumed by the
// stabilization pipeline, along with a nearest-centroid implementation
// and a mock for tests.
package classify

import "errors"

// ErrDimensionMismatch is returned when a feature vector does not match
// the width the classifier was built with.
var ErrDimensionMismatch = errors.New("feature vector has wrong dimension")

// Prediction is the output of a single classifier invocation.
type Prediction struct {
	Class      int       // arg-max class id
	Confidence float64   // probability of the arg-max class, in [0,1]
	Probs      []float64 // full per-class distribution
}

// Classifier maps a feature vector to a per-class probability
// distribution. Implementations must be safe for concurrent use.
type Classifier interface {
	Classify(features []float64) (Prediction, error)
}

// DefaultLabels is the gesture vocabulary of the stock sensor-glove
// model, indexed by class id.
var DefaultLabels = []string{
	"Call", "Emergency", "Food", "Medicine", "No",
	"Sleep", "Stop", "Washroom", "Water", "Yes",
}
