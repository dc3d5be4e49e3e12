package receipt

import (
	"fmt"
	"log"
)

// Mode selects the preprocessing tier the recognizer applies before reading
// the image.
type Mode int

const (
	ModeStandard Mode = iota
	ModeAggressive
)

func (m Mode) String() string {
	if m == ModeAggressive {
		return "aggressive"
	}
	return "standard"
}

// Recognizer is the external text-recognition collaborator. The pipeline
// treats it as a black box that yields raw text for an image at a given
// preprocessing tier.
type Recognizer interface {
	Recognize(path string, mode Mode) (string, error)
}

// requiredFields must all be non-empty after normalization for a record to
// leave the pipeline as complete.
var requiredFields = []string{
	"amount_value", "date", "operation", "identification", "destination", "bankName",
}

// Processor drives the two-pass extraction state machine over a receipt
// image. It holds no per-invocation state, so a single Processor is safe for
// concurrent use.
type Processor struct {
	engine Recognizer
	parser Parser
}

func NewProcessor(engine Recognizer) *Processor {
	return &Processor{engine: engine}
}

// Process OCRs the receipt at path and extracts its transaction fields.
// Pass 1 uses standard preprocessing; when it cannot produce both an amount
// and a date, the image is re-read with aggressive preprocessing and the two
// records are merged with pass-1 precedence. On validation failure the
// partial record is returned alongside a MissingFieldsError so callers can
// route it to manual review.
func (p *Processor) Process(path string) (map[string]any, error) {
	text, err := p.engine.Recognize(path, ModeStandard)
	if err != nil {
		return nil, fmt.Errorf("recognize standard: %w", err)
	}
	result := p.parser.Extract(text)
	result.RawText = text

	if result.AmountValue == nil || result.Date == "" {
		log.Printf("receipt: standard pass incomplete, retrying with aggressive preprocessing")
		textAggr, err := p.engine.Recognize(path, ModeAggressive)
		if err != nil {
			return nil, fmt.Errorf("recognize aggressive: %w", err)
		}
		aggr := p.parser.Extract(textAggr)
		aggr.RawText = textAggr
		result = Merge(result, aggr)
		result.RawText = "=== STANDARD ===\n" + text + "\n\n=== AGGRESSIVE ===\n" + textAggr
	}

	result.BankCode, result.BankName = InferBankData(result.BankCode, result.BankName)

	data := Normalize(result.ToMap())

	if missing := MissingRequired(data); len(missing) > 0 {
		log.Printf("receipt: missing required fields: %v", missing)
		return data, &MissingFieldsError{Fields: missing}
	}
	return data, nil
}

// MissingRequired lists the required fields that are nil or blank in a
// normalized record.
func MissingRequired(data map[string]any) []string {
	var missing []string
	for _, k := range requiredFields {
		v, ok := data[k]
		if !ok || v == nil {
			missing = append(missing, k)
			continue
		}
		if s, isStr := v.(string); isStr && len(trim(s)) == 0 {
			missing = append(missing, k)
		}
	}
	return missing
}
