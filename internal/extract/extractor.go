// Package extract converts an uploaded resume file into plain text,
// dispatching on the filename extension. PDF extraction falls back to OCR
// for scanned documents; the expensive recognition passes carry their own
// cache entries independent of the outer stage cache.
package extract

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/RiikenJobstack/jobstackParser/internal/cache"
	"github.com/RiikenJobstack/jobstackParser/internal/fingerprint"
)

// UnsupportedFormatText is the sentinel result for unrecognized extensions.
// It is data, not an error: the pipeline still produces a result object.
const UnsupportedFormatText = "Unsupported file format."

// Extractor is the extraction stage.
type Extractor struct {
	cache *cache.Layered
	ocr   *OCREngine
	log   *slog.Logger

	// pdfText is the text-layer pass, injectable in tests.
	pdfText func(content []byte) (string, error)
}

func NewExtractor(c *cache.Layered, ocr *OCREngine, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		cache:   c,
		ocr:     ocr,
		log:     logger,
		pdfText: pdfTextLayer,
	}
}

// Extract converts (filename, content) to text. The result is cached under
// text_extract by file-content fingerprint; a hit skips parsing entirely.
func (e *Extractor) Extract(ctx context.Context, filename string, content []byte) string {
	fp := fingerprint.Bytes(content)
	key := cache.Key(cache.NSTextExtract, fp)
	if b, ok := e.cache.Get(ctx, key); ok {
		e.log.Debug("extract.cache_hit", "key", key)
		return string(b)
	}

	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = e.extractPDF(ctx, content, fp)
	case ".docx":
		text, err = e.extractDOCX(content)
	case ".png", ".jpg", ".jpeg":
		text, err = e.extractImage(ctx, content, fp)
	default:
		e.log.Warn("extract.unsupported_format", "filename", filename)
		return UnsupportedFormatText
	}
	if err != nil {
		// Soften to empty text, but never cache it: a transient failure must
		// not stick to the file fingerprint.
		e.log.Error("extract.failed", "filename", filename, "error", err)
		return ""
	}

	e.cache.Set(ctx, key, []byte(text))
	return text
}

// extractPDF runs the text-layer pass and falls back to OCR when the result
// is empty or whitespace-only. The OCR result is cached under pdf_ocr
// independently: OCR is far more expensive than parsing.
func (e *Extractor) extractPDF(ctx context.Context, content []byte, fp string) (string, error) {
	text, err := e.pdfText(content)
	if err != nil {
		e.log.Warn("extract.pdf.text_layer_failed", "error", err)
		text = ""
	}
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	ocrKey := cache.Key(cache.NSPDFOCR, fp)
	if b, ok := e.cache.Get(ctx, ocrKey); ok {
		e.log.Debug("extract.pdf.ocr_cache_hit", "key", ocrKey)
		return string(b), nil
	}

	ocrText, err := e.ocr.RecognizePDF(ctx, content)
	if err != nil {
		return "", err
	}
	e.cache.Set(ctx, ocrKey, []byte(ocrText))
	return ocrText, nil
}

func (e *Extractor) extractDOCX(content []byte) (string, error) {
	return docxText(content)
}

func (e *Extractor) extractImage(ctx context.Context, content []byte, fp string) (string, error) {
	key := cache.Key(cache.NSImageOCR, fp)
	if b, ok := e.cache.Get(ctx, key); ok {
		e.log.Debug("extract.image.ocr_cache_hit", "key", key)
		return string(b), nil
	}

	text, err := e.ocr.RecognizeImage(ctx, content)
	if err != nil {
		return "", err
	}
	e.cache.Set(ctx, key, []byte(text))
	return text, nil
}
