package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/sanoh-inlab/labelgo/internal/models"
	"github.com/sanoh-inlab/labelgo/internal/services/printer"
)

// batchFile is the input accepted by print_labels, shaped like the
// backend's printable labels response.
type batchFile struct {
	ProdHeader *models.OrderHeader  `json:"prod_header"`
	Data       []models.LabelRecord `json:"data"`
}

func main() {
	in := flag.String("in", "", "JSON batch file ({prod_header, data}); - reads stdin")
	out := flag.String("out", "labels.pdf", "output PDF path")
	logoPath := flag.String("logo", os.Getenv("PRINT_LOGO_PATH"), "PNG logo for the label header")
	company := flag.String("company", "SANOH", "company name printed when no logo is set")
	tz := flag.String("tz", "Asia/Jakarta", "time zone of the footer timestamp")
	workers := flag.Int("workers", 4, "concurrent QR encodes")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	batch, err := readBatch(*in)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		log.Printf("⚠️ Unknown time zone %q, using local time", *tz)
		loc = time.Local
	}
	logo, err := printer.LoadLogo(*logoPath, *company)
	if err != nil {
		log.Printf("⚠️ %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gen := printer.NewGenerator(printer.NewQREncoder(), printer.Options{Workers: *workers, Location: loc, Logo: logo})
	pdfBytes, doc, err := gen.Export(ctx, batch.Data, batch.ProdHeader)
	if err != nil {
		log.Fatalf("❌ Failed to render labels: %v", err)
	}

	if err := os.WriteFile(*out, pdfBytes, 0o644); err != nil {
		log.Fatalf("❌ Failed to write %s: %v", *out, err)
	}
	fmt.Printf("✅ %d labels on %d pages written to %s (%d bytes)\n", doc.LabelCount(), len(doc.Pages), *out, len(pdfBytes))
}

func readBatch(path string) (*batchFile, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}

	var batch batchFile
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse batch: %w", err)
	}
	return &batch, nil
}
