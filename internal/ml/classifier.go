// internal/ml/classifier.go
package ml

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/sangrahak/inventroops/internal/domain"
)

// classifierOutputs is the contract: exactly one stock status column and one
// priority column per input row. Anything else is a load-time error.
const classifierOutputs = 2

// LabelCodec maps a target label domain to stable integer codes. Codes follow
// sorted class order, mirroring how the training-time encoder assigned them.
type LabelCodec struct {
	Classes []string `json:"classes"`
}

// NewLabelCodec builds a codec over the distinct labels seen at training time.
func NewLabelCodec(labels []string) *LabelCodec {
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for l := range seen {
		classes = append(classes, l)
	}
	sort.Strings(classes)
	return &LabelCodec{Classes: classes}
}

// Encode returns the integer code for a label.
func (c *LabelCodec) Encode(label string) (int, bool) {
	for i, l := range c.Classes {
		if l == label {
			return i, true
		}
	}
	return 0, false
}

// Decode returns the label for an integer code.
func (c *LabelCodec) Decode(code int) (string, bool) {
	if code < 0 || code >= len(c.Classes) {
		return "", false
	}
	return c.Classes[code], true
}

// Classifier is the trained two-output model: one forest per target label,
// both fitted over the same feature matrix in a single Train call. It is
// created by training, loaded read-only at inference, and never mutated.
type Classifier struct {
	StatusForest   *forest     `json:"status_forest"`
	PriorityForest *forest     `json:"priority_forest"`
	StatusLabels   *LabelCodec `json:"status_labels"`
	PriorityLabels *LabelCodec `json:"priority_labels"`
	Features       int         `json:"features"`
}

// TrainClassifier jointly fits both label outputs over shared features.
func TrainClassifier(features [][]float64, statuses, priorities []string) (*Classifier, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("no training rows")
	}
	if len(statuses) != len(features) || len(priorities) != len(features) {
		return nil, fmt.Errorf("label count does not match %d feature rows", len(features))
	}

	statusCodec := NewLabelCodec(statuses)
	priorityCodec := NewLabelCodec(priorities)

	statusCodes := make([]int, len(statuses))
	for i, s := range statuses {
		code, ok := statusCodec.Encode(s)
		if !ok {
			return nil, fmt.Errorf("unencodable stock status %q at row %d", s, i)
		}
		statusCodes[i] = code
	}
	priorityCodes := make([]int, len(priorities))
	for i, p := range priorities {
		code, ok := priorityCodec.Encode(p)
		if !ok {
			return nil, fmt.Errorf("unencodable priority %q at row %d", p, i)
		}
		priorityCodes[i] = code
	}

	c := &Classifier{
		StatusForest:   trainForest(features, statusCodes, len(statusCodec.Classes), RandomSeed),
		PriorityForest: trainForest(features, priorityCodes, len(priorityCodec.Classes), RandomSeed+EstimatorCount),
		StatusLabels:   statusCodec,
		PriorityLabels: priorityCodec,
		Features:       len(features[0]),
	}
	return c, nil
}

// Outputs reports the number of predicted label columns per input row.
func (c *Classifier) Outputs() int {
	outputs := 0
	if c.StatusForest != nil {
		outputs++
	}
	if c.PriorityForest != nil {
		outputs++
	}
	return outputs
}

// Validate checks the loaded artifact. Output cardinality other than two, or
// a missing label codec, means the artifact cannot be trusted to produce the
// contracted (stock_status, priority) pair.
func (c *Classifier) Validate() error {
	if c == nil {
		return fmt.Errorf("classifier artifact missing")
	}
	if got := c.Outputs(); got != classifierOutputs {
		return fmt.Errorf("classifier produces %d output columns, expected %d", got, classifierOutputs)
	}
	if c.StatusLabels == nil || len(c.StatusLabels.Classes) == 0 {
		return fmt.Errorf("stock status label codec missing")
	}
	if c.PriorityLabels == nil || len(c.PriorityLabels.Classes) == 0 {
		return fmt.Errorf("priority label codec missing")
	}
	if c.Features <= 0 {
		return fmt.Errorf("classifier records no feature width")
	}
	return nil
}

// Predict returns the (stock_status, priority) pair for one feature vector.
// A code with no known string mapping decodes to Unknown with a warning; it
// never propagates as an error.
func (c *Classifier) Predict(x []float64) (string, string, error) {
	if len(x) != c.Features {
		return "", "", fmt.Errorf("feature vector has %d columns, classifier expects %d", len(x), c.Features)
	}

	status, ok := c.StatusLabels.Decode(c.StatusForest.predict(x))
	if !ok {
		log.Warn().Int("code", c.StatusForest.predict(x)).Msg("could not decode stock status prediction")
		status = domain.UnknownLabel
	}
	priority, ok := c.PriorityLabels.Decode(c.PriorityForest.predict(x))
	if !ok {
		log.Warn().Int("code", c.PriorityForest.predict(x)).Msg("could not decode priority prediction")
		priority = domain.UnknownLabel
	}
	return status, priority, nil
}

// PredictBatch predicts both labels for every row.
func (c *Classifier) PredictBatch(rows [][]float64) ([][2]string, error) {
	out := make([][2]string, 0, len(rows))
	for _, x := range rows {
		status, priority, err := c.Predict(x)
		if err != nil {
			return nil, err
		}
		out = append(out, [2]string{status, priority})
	}
	return out, nil
}
