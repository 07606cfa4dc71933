package service

import (
	"encoding/json"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	apperrors "github.com/aquaflow/aquaflow-ui/internal/errors"
)

// DefaultBatchIDExpr selects the batch id from the QR payload printed at intake.
const DefaultBatchIDExpr = "batch_id"

// ScannedBatch is what a batch QR label carries.
type ScannedBatch struct {
	BatchID    string
	FarmerID   string
	WeightKG   float64
	SizeGrade  string
	IntakeDate string
}

// JMESPathEvaluator abstracts JMESPath validation and evaluation.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

type jmespathLibEvaluator struct{}

func (jmespathLibEvaluator) Validate(expr string) error {
	_, err := jmespath.Compile(expr)
	return err
}

func (jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// BatchScanner decodes the text read from a batch QR label.
type BatchScanner struct {
	expr string
	jems JMESPathEvaluator
}

// NewBatchScanner compiles expr once. An empty expression selects DefaultBatchIDExpr.
func NewBatchScanner(expr string) (*BatchScanner, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		expr = DefaultBatchIDExpr
	}
	s := &BatchScanner{expr: expr, jems: jmespathLibEvaluator{}}
	if err := s.jems.Validate(expr); err != nil {
		return nil, fmt.Errorf("invalid batch id expression %q: %w", expr, err)
	}
	return s, nil
}

// Decode parses the JSON label text and extracts the batch id with the configured
// expression. Text that is not a JSON object, or yields no string id, is a validation error.
func (s *BatchScanner) Decode(text string) (*ScannedBatch, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.ValidationField("payload", "Scan a QR code first.")
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, apperrors.ValidationField("payload", "Invalid QR code format.")
	}

	v, err := s.jems.Evaluate(s.expr, doc)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Invalid QR code format.")
	}
	id, _ := v.(string)
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.ValidationField("payload", "QR code does not name a batch.")
	}

	out := &ScannedBatch{BatchID: id}
	out.FarmerID, _ = doc["farmer_id"].(string)
	out.WeightKG, _ = doc["weight_kg"].(float64)
	out.SizeGrade, _ = doc["size_grade"].(string)
	out.IntakeDate, _ = doc["intake_date"].(string)
	return out, nil
}
