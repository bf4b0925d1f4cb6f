package classify

import (
	"encoding/json"
	"fmt"
	"os"
)

// Model is the on-disk classifier description: one centroid per class
// and, optionally, the matching label vocabulary.
type Model struct {
	Labels    []string    `json:"labels"`
	Centroids [][]float64 `json:"centroids"`
}

// LoadModel reads a Model from a JSON file and builds the classifier.
// When the file carries no labels, DefaultLabels is used.
func LoadModel(path string) (*CentroidClassifier, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read model: %w", err)
	}

	var model Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, nil, fmt.Errorf("failed to parse model: %w", err)
	}

	classifier, err := NewCentroidClassifier(model.Centroids)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid model: %w", err)
	}

	labels := model.Labels
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	if len(labels) != len(model.Centroids) {
		return nil, nil, fmt.Errorf("model has %d labels for %d classes", len(labels), len(model.Centroids))
	}

	return classifier, labels, nil
}
