package classify

import "sync"

// MockClassifier is a test implementation of the Classifier interface.
// It allows tests to script the predictions returned for each call.
type MockClassifier struct {
	mu      sync.Mutex
	queue   []Prediction
	last    Prediction
	hasLast bool
	err     error

	// Calls records every feature vector passed to Classify.
	Calls [][]float64
}

// NewMockClassifier creates a new MockClassifier instance.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// Enqueue appends predictions to be returned by subsequent Classify
// calls, in order. The last prediction is repeated once the queue is
// drained.
func (m *MockClassifier) Enqueue(preds ...Prediction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, preds...)
}

// SetError sets the error that will be returned by Classify.
func (m *MockClassifier) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Classify returns the next scripted prediction or error.
func (m *MockClassifier) Classify(features []float64) (Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]float64, len(features))
	copy(snapshot, features)
	m.Calls = append(m.Calls, snapshot)

	if m.err != nil {
		return Prediction{}, m.err
	}

	if len(m.queue) > 0 {
		m.last = m.queue[0]
		m.hasLast = true
		m.queue = m.queue[1:]
	}

	if !m.hasLast {
		return Prediction{Class: -1}, nil
	}
	return m.last, nil
}
