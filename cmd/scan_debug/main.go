package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"pagoscan/pkg/ocr"
	"pagoscan/pkg/receipt"
)

// Runs the extraction pipeline on a single image and prints the normalized
// record as JSON. No DB involved; useful for tuning tessdata and patterns.
func main() {
	textOnly := flag.Bool("text", false, "print raw OCR text instead of the extracted record")
	aggressive := flag.Bool("aggressive", false, "with --text: use aggressive preprocessing")
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: go run ./cmd/scan_debug [--text] [--aggressive] <image>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	engine := ocr.NewEngine()

	if *textOnly {
		mode := receipt.ModeStandard
		if *aggressive {
			mode = receipt.ModeAggressive
		}
		text, err := engine.Recognize(path, mode)
		if err != nil {
			log.Fatalf("recognize failed: %v", err)
		}
		fmt.Println(text)
		return
	}

	proc := receipt.NewProcessor(engine)
	data, err := proc.Process(path)
	var mferr *receipt.MissingFieldsError
	if err != nil && !errors.As(err, &mferr) {
		log.Fatalf("extraction failed: %v", err)
	}
	out, _ := json.MarshalIndent(data, "", "  ")
	fmt.Println(string(out))
	if mferr != nil {
		fmt.Fprintf(os.Stderr, "incomplete: missing %v\n", mferr.Fields)
		os.Exit(1)
	}
}
