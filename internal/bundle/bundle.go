// internal/bundle/bundle.go
package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sangrahak/inventroops/internal/domain"
	"github.com/sangrahak/inventroops/internal/forecast"
	"github.com/sangrahak/inventroops/internal/ml"
)

// CurrentVersion tags the bundle layout; bump when the artifact shape changes.
const CurrentVersion = 1

// Bundle is the deployable model artifact: the fitted classifier, the
// per-column vocabularies and the per-item forecast models. It is created by
// training, loaded once at startup and treated as read-only afterwards, which
// is what makes concurrent lock-free inference safe.
type Bundle struct {
	Version    int                           `json:"version"`
	CreatedAt  time.Time                     `json:"created_at"`
	Vocabulary ml.Vocabulary                 `json:"vocabulary"`
	Classifier *ml.Classifier                `json:"classifier"`
	Forecasts  map[string]forecast.FitResult `json:"forecasts"`
}

// New assembles a bundle from freshly trained artifacts.
func New(vocab ml.Vocabulary, classifier *ml.Classifier, forecasts map[string]forecast.FitResult) *Bundle {
	return &Bundle{
		Version:    CurrentVersion,
		CreatedAt:  time.Now().UTC(),
		Vocabulary: vocab,
		Classifier: classifier,
		Forecasts:  forecasts,
	}
}

// Lookup returns the forecast fit outcome for an item. A missing entry is a
// valid state, reported as a fallback result rather than an error.
func (b *Bundle) Lookup(itemID string) forecast.FitResult {
	if res, ok := b.Forecasts[itemID]; ok {
		return res
	}
	return forecast.FitResult{FallbackReason: "no trained forecast model for item"}
}

// FittedModelCount reports how many items carry a fitted ARIMA model.
func (b *Bundle) FittedModelCount() int {
	count := 0
	for _, res := range b.Forecasts {
		if res.Fitted() {
			count++
		}
	}
	return count
}

// validate checks the loaded artifact before it is allowed to serve. Any
// failure here is a ConfigurationError: startup aborts instead of producing
// silently wrong answers.
func (b *Bundle) validate() error {
	if b.Classifier == nil {
		return domain.NewConfigurationError("classifier", "artifact missing from bundle")
	}
	if err := b.Classifier.Validate(); err != nil {
		return domain.NewConfigurationError("classifier", err.Error())
	}
	if b.Vocabulary == nil {
		return domain.NewConfigurationError("vocabulary", "artifact missing from bundle")
	}
	if err := b.Vocabulary.Validate(); err != nil {
		return domain.NewConfigurationError("vocabulary", err.Error())
	}
	if b.Classifier.Features != ml.FeatureCount() {
		return domain.NewConfigurationError("classifier",
			fmt.Sprintf("trained on %d features, encoder produces %d", b.Classifier.Features, ml.FeatureCount()))
	}
	return nil
}

// Marshal serializes the bundle for transport. The artifact is opaque to the
// store that carries it.
func (b *Bundle) Marshal() ([]byte, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode model bundle: %w", err)
	}
	return data, nil
}

// Unmarshal decodes and validates a bundle, extending every vocabulary with
// the reserved Unknown code at load time so no per-request mutation is needed.
func Unmarshal(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, domain.NewConfigurationError("bundle", fmt.Sprintf("undecodable artifact: %v", err))
	}
	if b.Vocabulary != nil {
		b.Vocabulary.EnsureUnknown()
	}
	if b.Forecasts == nil {
		b.Forecasts = make(map[string]forecast.FitResult)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Save writes the bundle to disk, creating parent directories as needed.
func (b *Bundle) Save(path string) error {
	data, err := b.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create bundle directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write model bundle: %w", err)
	}
	return nil
}

// Load reads and validates a bundle from disk. A missing file is a
// ConfigurationError; serving without a model is not an option.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewConfigurationError("bundle", fmt.Sprintf("no model bundle at %s", path))
		}
		return nil, fmt.Errorf("read model bundle: %w", err)
	}
	return Unmarshal(data)
}
