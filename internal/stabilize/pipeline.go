package stabilize

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ayusman/mudra/internal/classify"
)

// Status tags a Decision with how it was produced.
type Status string

const (
	// StatusBuffering means the raw window is not yet full and the
	// classifier has not been consulted.
	StatusBuffering Status = "buffering"
	// StatusLowConfidence means the instantaneous confidence fell below
	// the low threshold and the observation was discarded.
	StatusLowConfidence Status = "low_confidence"
	// StatusConfident means the observation was admitted to the vote
	// window and the decision reflects the current majority.
	StatusConfident Status = "confident"
)

// Sentinel labels used before a real gesture can be reported.
const (
	LabelInitializing = "Initializing..."
	LabelUnknown      = "Unknown"
)

// ErrBadVector is returned when an ingested sample does not match the
// feature width of earlier samples.
var ErrBadVector = errors.New("sample width does not match window contents")

// Config holds the pipeline tuning parameters. All fields are required;
// there are no hidden defaults.
type Config struct {
	RawWindow      int     // Kraw: samples averaged before classification
	VoteWindow     int     // Kpred: admitted predictions voted over
	LowConfidence  float64 // below this an observation is discarded
	HighConfidence float64 // below this the actionable class is withheld
	Labels         []string
}

// Decision is the stable output produced fresh on every query.
type Decision struct {
	// Gesture is the displayed label: the majority-vote winner, or a
	// sentinel while buffering or gated.
	Gesture string
	// PredictedClass is the actionable class id: the instantaneous
	// arg-max class when its confidence clears HighConfidence, else -1.
	// It gates side effects on higher certainty than display needs.
	PredictedClass int
	// Confidence is the instantaneous arg-max probability, 0 while
	// buffering.
	Confidence float64
	Status     Status
}

// Pipeline applies low-pass averaging to raw feature vectors, runs the
// classifier on the window mean, then gates and majority-votes the
// resulting predictions. Safe for concurrent ingest and query.
type Pipeline struct {
	mu         sync.Mutex
	raw        *Window[[]float64]
	votes      *Window[int]
	classifier classify.Classifier
	cfg        Config
	width      int // fixed by the first ingested sample
}

// NewPipeline creates a Pipeline using the given classifier and config.
func NewPipeline(classifier classify.Classifier, cfg Config) *Pipeline {
	return &Pipeline{
		raw:        NewWindow[[]float64](cfg.RawWindow),
		votes:      NewWindow[int](cfg.VoteWindow),
		classifier: classifier,
		cfg:        cfg,
	}
}

// Ingest appends one raw feature vector to the averaging window. The
// first sample fixes the expected width; later samples of a different
// width are rejected with ErrBadVector.
func (p *Pipeline) Ingest(sample []float64) error {
	if len(sample) == 0 {
		return fmt.Errorf("%w: empty sample", ErrBadVector)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.width == 0 {
		p.width = len(sample)
	} else if len(sample) != p.width {
		return fmt.Errorf("%w: got %d, want %d", ErrBadVector, len(sample), p.width)
	}

	owned := make([]float64, len(sample))
	copy(owned, sample)
	p.raw.Push(owned)
	return nil
}

// Predict produces a fresh Decision. Until the raw window is full it
// reports StatusBuffering without invoking the classifier. Classifier
// errors propagate to the caller unmasked.
func (p *Pipeline) Predict() (Decision, error) {
	p.mu.Lock()
	if !p.raw.Full() {
		p.mu.Unlock()
		return Decision{
			Gesture:        LabelInitializing,
			PredictedClass: -1,
			Confidence:     0,
			Status:         StatusBuffering,
		}, nil
	}
	samples := p.raw.Items()
	p.mu.Unlock()

	// The classifier runs outside the lock so ingestion is never
	// blocked on classifier latency.
	pred, err := p.classifier.Classify(meanVector(samples))
	if err != nil {
		return Decision{}, err
	}

	return p.admit(pred), nil
}

// Observe feeds an already-classified per-frame prediction straight
// through the confidence gate and majority vote, bypassing the raw
// averaging window.
func (p *Pipeline) Observe(pred classify.Prediction) Decision {
	return p.admit(pred)
}

// admit applies the confidence gate and majority vote to one
// instantaneous prediction and builds the Decision.
func (p *Pipeline) admit(pred classify.Prediction) Decision {
	p.mu.Lock()
	defer p.mu.Unlock()

	decision := Decision{
		PredictedClass: -1,
		Confidence:     pred.Confidence,
	}

	if pred.Confidence < p.cfg.LowConfidence {
		// The vote window is left untouched so one noisy sample cannot
		// dilute an established majority.
		decision.Gesture = LabelUnknown
		decision.Status = StatusLowConfidence
		return decision
	}

	p.votes.Push(pred.Class)
	voted := majority(p.votes.Items())

	decision.Gesture = p.label(voted)
	decision.Status = StatusConfident

	if pred.Confidence >= p.cfg.HighConfidence {
		decision.PredictedClass = pred.Class
	}
	return decision
}

// label maps a class id to its human-readable name.
func (p *Pipeline) label(class int) string {
	if class < 0 || class >= len(p.cfg.Labels) {
		return LabelUnknown
	}
	return p.cfg.Labels[class]
}

// majority returns the most frequent class in the window. Ties are
// broken deterministically: scanning oldest to newest, the first class
// to reach the maximal count wins.
func majority(votes []int) int {
	counts := make(map[int]int, len(votes))
	for _, v := range votes {
		counts[v]++
	}

	best := -1
	bestCount := 0
	for _, v := range votes {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best
}

// meanVector computes the element-wise mean of equally sized vectors.
func meanVector(samples [][]float64) []float64 {
	mean := make([]float64, len(samples[0]))
	for _, s := range samples {
		for i, v := range s {
			mean[i] += v
		}
	}
	for i := range mean {
		mean[i] /= float64(len(samples))
	}
	return mean
}
