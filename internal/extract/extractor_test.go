package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/RiikenJobstack/jobstackParser/internal/cache"
	"github.com/RiikenJobstack/jobstackParser/internal/fingerprint"
)

// fakeRunner stands in for pdftoppm/tesseract. It renders one fake page per
// PDF and answers every recognition call with pageText, failing the first
// tesseractFailures recognition calls.
type fakeRunner struct {
	pdftoppmCalls     int
	tesseractCalls    int
	tesseractFailures int
	pageText          string
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	switch filepath.Base(name) {
	case "pdftoppm":
		r.pdftoppmCalls++
		prefix := args[len(args)-1]
		if err := os.WriteFile(prefix+"-1.png", []byte("png"), 0o600); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	case "tesseract":
		r.tesseractCalls++
		if r.tesseractFailures > 0 {
			r.tesseractFailures--
			return nil, []byte("tesseract crashed"), fmt.Errorf("exit status 1")
		}
		return []byte(r.pageText), nil, nil
	}
	return nil, nil, fmt.Errorf("unexpected command %q", name)
}

func setupExtractor(t *testing.T) (*Extractor, *cache.Layered, *fakeRunner) {
	t.Helper()
	c := cache.NewLayered(cache.Options{MaxEntries: 100}, nil, nil)
	runner := &fakeRunner{pageText: "Jane Doe\nSoftware Engineer"}
	engine := NewOCREngine(OCRConfig{}, runner, nil)
	return NewExtractor(c, engine, nil), c, runner
}

func TestExtractUnsupportedExtension(t *testing.T) {
	e, _, runner := setupExtractor(t)

	got := e.Extract(context.Background(), "resume.txt", []byte("plain text"))
	if got != UnsupportedFormatText {
		t.Errorf("Extract = %q, want sentinel %q", got, UnsupportedFormatText)
	}
	if runner.tesseractCalls != 0 || runner.pdftoppmCalls != 0 {
		t.Error("unsupported format must not invoke recognition")
	}
}

func TestExtractDispatchIsCaseInsensitive(t *testing.T) {
	e, _, _ := setupExtractor(t)
	e.pdfText = func([]byte) (string, error) { return "text layer", nil }

	if got := e.Extract(context.Background(), "Resume.PDF", []byte("%PDF")); got != "text layer" {
		t.Errorf("Extract = %q, want %q", got, "text layer")
	}
}

func TestExtractPDFTextLayerSkipsOCR(t *testing.T) {
	e, _, runner := setupExtractor(t)
	textLayerCalls := 0
	e.pdfText = func([]byte) (string, error) {
		textLayerCalls++
		return "Jane Doe, Software Engineer", nil
	}
	ctx := context.Background()
	content := []byte("%PDF-1.4 fake")

	got := e.Extract(ctx, "resume.pdf", content)
	if got != "Jane Doe, Software Engineer" {
		t.Fatalf("Extract = %q, want text layer content", got)
	}
	if runner.tesseractCalls != 0 {
		t.Error("text-layer extraction must not invoke OCR")
	}

	// Second upload of identical bytes is served from the outer stage cache.
	if got := e.Extract(ctx, "resume.pdf", content); got != "Jane Doe, Software Engineer" {
		t.Fatalf("second Extract = %q", got)
	}
	if textLayerCalls != 1 {
		t.Errorf("text-layer passes = %d, want 1", textLayerCalls)
	}
}

func TestExtractScannedPDFFallsBackToOCR(t *testing.T) {
	e, c, runner := setupExtractor(t)
	e.pdfText = func([]byte) (string, error) { return "  \n ", nil } // whitespace-only layer
	ctx := context.Background()
	content := []byte("%PDF-1.4 scanned")

	got := e.Extract(ctx, "scan.pdf", content)
	want := "Jane Doe\nSoftware Engineer\n"
	if got != want {
		t.Errorf("Extract = %q, want %q", got, want)
	}
	if runner.pdftoppmCalls != 1 || runner.tesseractCalls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", runner.pdftoppmCalls, runner.tesseractCalls)
	}

	// OCR result is cached in its own namespace, independent of text_extract.
	key := cache.Key(cache.NSPDFOCR, fingerprint.Bytes(content))
	if b, ok := c.Get(ctx, key); !ok || string(b) != want {
		t.Errorf("pdf_ocr entry = %q, %v; want %q, true", b, ok, want)
	}
}

func TestScannedPDFInnerCacheSkipsRecognition(t *testing.T) {
	e, c, runner := setupExtractor(t)
	e.pdfText = func([]byte) (string, error) { return "", nil }
	ctx := context.Background()
	content := []byte("%PDF-1.4 warm ocr")

	// Outer stage cache is cold but the OCR-level entry is warm.
	c.Set(ctx, cache.Key(cache.NSPDFOCR, fingerprint.Bytes(content)), []byte("warm ocr text"))

	if got := e.Extract(ctx, "scan.pdf", content); got != "warm ocr text" {
		t.Errorf("Extract = %q, want warm OCR entry", got)
	}
	if runner.tesseractCalls != 0 {
		t.Error("warm pdf_ocr entry must skip the recognition pass")
	}
}

func TestExtractImageCachesOCR(t *testing.T) {
	e, _, runner := setupExtractor(t)
	ctx := context.Background()
	content := []byte("\x89PNG fake image")

	first := e.Extract(ctx, "photo.jpg", content)
	second := e.Extract(ctx, "photo.jpg", content)
	if first != second {
		t.Errorf("results differ: %q vs %q", first, second)
	}
	if runner.tesseractCalls != 1 {
		t.Errorf("recognition calls = %d, want 1", runner.tesseractCalls)
	}
}

func buildDOCX(t *testing.T, paragraphs []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	fmt.Fprint(f, `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		fmt.Fprintf(f, `<w:p><w:r><w:t>%s</w:t></w:r></w:p>`, p)
	}
	fmt.Fprint(f, `</w:body></w:document>`)
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractDOCXParagraphs(t *testing.T) {
	e, _, _ := setupExtractor(t)
	content := buildDOCX(t, []string{"Jane Doe", "Software Engineer", "jane@example.com"})

	got := e.Extract(context.Background(), "resume.docx", content)
	want := "Jane Doe\nSoftware Engineer\njane@example.com"
	if got != want {
		t.Errorf("Extract = %q, want %q", got, want)
	}
}

func TestExtractCorruptDOCXYieldsEmptyUncachedText(t *testing.T) {
	e, c, _ := setupExtractor(t)
	ctx := context.Background()
	content := []byte("not a zip")

	if got := e.Extract(ctx, "resume.docx", content); got != "" {
		t.Errorf("Extract = %q, want empty text for corrupt docx", got)
	}
	key := cache.Key(cache.NSTextExtract, fingerprint.Bytes(content))
	if _, ok := c.Get(ctx, key); ok {
		t.Error("failed extraction was cached under text_extract")
	}
}

func TestTransientOCRFailureIsRetried(t *testing.T) {
	e, c, runner := setupExtractor(t)
	runner.tesseractFailures = 1
	e.pdfText = func([]byte) (string, error) { return "", nil }
	ctx := context.Background()
	content := []byte("%PDF-1.4 flaky scan")

	if got := e.Extract(ctx, "scan.pdf", content); got != "" {
		t.Fatalf("Extract during outage = %q, want empty text", got)
	}
	for _, ns := range []string{cache.NSTextExtract, cache.NSPDFOCR} {
		if _, ok := c.Get(ctx, cache.Key(ns, fingerprint.Bytes(content))); ok {
			t.Fatalf("failed extraction landed in %s", ns)
		}
	}

	// The recognizer recovered; a re-upload runs OCR again and succeeds.
	got := e.Extract(ctx, "scan.pdf", content)
	want := "Jane Doe\nSoftware Engineer\n"
	if got != want {
		t.Errorf("Extract after recovery = %q, want %q", got, want)
	}
	if runner.tesseractCalls != 2 {
		t.Errorf("recognition calls = %d, want 2 (failure was not cached)", runner.tesseractCalls)
	}
}
