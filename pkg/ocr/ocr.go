package ocr

import (
	"fmt"
	"log"
	"os"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"pagoscan/pkg/receipt"
)

// Engine performs Tesseract OCR over receipt photos. It implements
// receipt.Recognizer with two preprocessing tiers: the standard one keeps
// the image close to the original, the aggressive one trades detail for
// contrast when the first read comes back incomplete.
type Engine struct {
	Lang string
}

// NewEngine builds an engine using OCR_LANG (default "spa"; the receipts are
// Spanish and the labeled fields read far better with the spa model).
func NewEngine() *Engine {
	lang := os.Getenv("OCR_LANG")
	if lang == "" {
		lang = "spa"
	}
	return &Engine{Lang: lang}
}

// Recognize preprocesses the image at path for the given mode and returns the
// raw OCR text. Line structure is preserved: the per-bank strategies match
// label-on-own-line layouts and the concept heuristic scans lines.
func (e *Engine) Recognize(path string, mode receipt.Mode) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	pre := Preprocess(img, mode == receipt.ModeAggressive)

	tmp := path
	if tmpFile, err := os.CreateTemp("", "scan-*.png"); err == nil {
		tmp = tmpFile.Name()
		_ = tmpFile.Close()
		if err := imaging.Save(pre, tmp); err != nil {
			tmp = path
		}
	}

	client := gosseract.NewClient()
	defer client.Close()
	_ = client.SetLanguage(e.Lang)
	_ = client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK)
	client.SetImage(tmp)
	text, err := client.Text()
	if tmp != path {
		_ = os.Remove(tmp)
	}
	if err != nil {
		return "", fmt.Errorf("ocr error: %w", err)
	}
	text = tidyOCRText(text)
	log.Printf("OCR %s mode=%s snippet=%q", path, mode, snippet(text, 160))
	return text, nil
}
