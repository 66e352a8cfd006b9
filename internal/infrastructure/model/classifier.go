// Package model loads the pre-trained risk classifier artifact and scores
// assembled feature frames with it.
//
// The artifact is a JSON file exported from the training pipeline. It
// carries everything needed to reproduce training-time semantics at run
// time: the exact feature column order, per-class weights and intercepts
// of the multinomial logistic model, the class order, and the persisted
// fee_status label encoding. Nothing is re-fit here - in particular the
// label encoding is applied exactly as persisted, so category codes can
// never drift between runs.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/edupulse/student-risk-hub/internal/domain/shared"
)

// Artifact is the on-disk representation of the trained classifier.
type Artifact struct {
	// ModelVersion identifies the training run that produced this file.
	ModelVersion string `json:"model_version"`

	// Classes is the classifier's output order. The pipeline expects
	// ["low_risk", "medium_risk", "high_risk"].
	Classes []string `json:"classes"`

	// FeatureColumns is the exact input column order used at training
	// time. Scoring fails if the assembled frame disagrees.
	FeatureColumns []string `json:"feature_columns"`

	// Weights holds one coefficient vector per class, each as long as
	// FeatureColumns.
	Weights [][]float64 `json:"weights"`

	// Intercepts holds one bias term per class.
	Intercepts []float64 `json:"intercepts"`

	// FeeStatusEncoding lists fee_status category values in the order
	// the training-time encoder first saw them; a value's code is its
	// index in this slice.
	FeeStatusEncoding []string `json:"fee_status_encoding"`
}

// Classifier is a loaded, validated artifact ready to score rows.
type Classifier struct {
	artifact Artifact
	codes    map[string]float64
}

// Load reads and validates a classifier artifact from the given path.
// Call once per process; the classifier is immutable afterwards.
func Load(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, shared.WrapError("model", "Load", shared.ErrExternalService,
			fmt.Sprintf("cannot read artifact %s", path), err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, shared.WrapError("model", "Load", shared.ErrInvalidInput,
			"artifact is not valid JSON", err)
	}

	return New(a)
}

// New builds a Classifier from an in-memory artifact, validating its
// internal consistency.
func New(a Artifact) (*Classifier, error) {
	if len(a.Classes) != 3 {
		return nil, shared.NewDomainError("model", "Load", shared.ErrInvalidInput,
			fmt.Sprintf("expected 3 classes, artifact has %d", len(a.Classes)))
	}
	if len(a.Weights) != len(a.Classes) {
		return nil, shared.NewDomainError("model", "Load", shared.ErrInvalidInput,
			"weights do not match class count")
	}
	if len(a.Intercepts) != len(a.Classes) {
		return nil, shared.NewDomainError("model", "Load", shared.ErrInvalidInput,
			"intercepts do not match class count")
	}
	for i, w := range a.Weights {
		if len(w) != len(a.FeatureColumns) {
			return nil, shared.NewDomainError("model", "Load", shared.ErrInvalidInput,
				fmt.Sprintf("class %d weight vector has %d coefficients, expected %d",
					i, len(w), len(a.FeatureColumns)))
		}
	}
	if len(a.FeeStatusEncoding) == 0 {
		return nil, shared.NewDomainError("model", "Load", shared.ErrInvalidInput,
			"artifact has no fee_status encoding")
	}

	codes := make(map[string]float64, len(a.FeeStatusEncoding))
	for i, v := range a.FeeStatusEncoding {
		codes[v] = float64(i)
	}

	return &Classifier{artifact: a, codes: codes}, nil
}

// Version returns the artifact's model version string.
func (c *Classifier) Version() string {
	return c.artifact.ModelVersion
}

// FeatureColumns returns the input column order the model expects.
func (c *Classifier) FeatureColumns() []string {
	return c.artifact.FeatureColumns
}

// EncodeFeeStatus maps a fee_status category to its persisted integer
// code. Unknown categories are a feature shape error: the model has no
// coefficient for them and guessing a code would silently mis-score.
func (c *Classifier) EncodeFeeStatus(value string) (float64, error) {
	code, ok := c.codes[value]
	if !ok {
		return 0, shared.WrapError("model", "Encode", shared.ErrFeatureShape,
			fmt.Sprintf("fee_status %q unseen at training time", value), nil)
	}
	return code, nil
}

// PredictProba returns one probability triple per input row, ordered as
// the artifact's Classes (low, medium, high). Each triple sums to 1.
func (c *Classifier) PredictProba(matrix [][]float64) ([][3]float64, error) {
	out := make([][3]float64, 0, len(matrix))
	for i, row := range matrix {
		if len(row) != len(c.artifact.FeatureColumns) {
			return nil, shared.WrapError("model", "Score", shared.ErrFeatureShape,
				fmt.Sprintf("row %d has %d features, classifier expects %d",
					i, len(row), len(c.artifact.FeatureColumns)), nil)
		}
		out = append(out, c.predictRow(row))
	}
	return out, nil
}

// predictRow computes softmax(Wx + b) for one feature vector.
func (c *Classifier) predictRow(x []float64) [3]float64 {
	var logits [3]float64
	for class := 0; class < 3; class++ {
		z := c.artifact.Intercepts[class]
		for j, v := range x {
			z += c.artifact.Weights[class][j] * v
		}
		logits[class] = z
	}

	// Subtract the max logit before exponentiating for numeric stability.
	maxLogit := math.Max(logits[0], math.Max(logits[1], logits[2]))
	var sum float64
	var probs [3]float64
	for i, z := range logits {
		probs[i] = math.Exp(z - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
