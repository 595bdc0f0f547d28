package pipeline

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/RiikenJobstack/jobstackParser/internal/cache"
	"github.com/RiikenJobstack/jobstackParser/internal/entity"
	"github.com/RiikenJobstack/jobstackParser/internal/llm"
)

type countingExtractor struct {
	calls int
	text  string
}

func (e *countingExtractor) Extract(context.Context, string, []byte) string {
	e.calls++
	return e.text
}

type countingTransformer struct {
	calls  int
	result json.RawMessage
}

func (t *countingTransformer) Transform(context.Context, string) json.RawMessage {
	t.calls++
	return t.result
}

func TestParseSecondUploadServedFromCache(t *testing.T) {
	ext := &countingExtractor{text: "Jane Doe\nSoftware Engineer"}
	tr := &countingTransformer{result: json.RawMessage(`{"personalInfo":{"fullName":"Jane Doe"}}`)}
	p := New(ext, tr, cache.NewLayered(cache.Options{MaxEntries: 10}, nil, nil), nil)
	ctx := context.Background()
	content := []byte("%PDF-1.4 resume bytes")

	first := p.Parse(ctx, "resume.pdf", content)
	second := p.Parse(ctx, "resume.pdf", content)

	if string(first) != string(second) {
		t.Errorf("results differ: %s vs %s", first, second)
	}
	if ext.calls != 1 || tr.calls != 1 {
		t.Errorf("stage calls = %d/%d, want 1/1 (re-upload short-circuits)", ext.calls, tr.calls)
	}
}

func TestParseErrorResultNotCached(t *testing.T) {
	ext := &countingExtractor{text: "unreadable"}
	tr := &countingTransformer{result: entity.ErrorJSON("upstream unavailable")}
	p := New(ext, tr, cache.NewLayered(cache.Options{MaxEntries: 10}, nil, nil), nil)
	ctx := context.Background()
	content := []byte("scan bytes")

	got := p.Parse(ctx, "scan.pdf", content)
	if msg, isErr := entity.IsErrorObject(got); !isErr || msg != "upstream unavailable" {
		t.Fatalf("Parse = %s, want error object", got)
	}

	// A re-upload of the same file runs the full pipeline again.
	p.Parse(ctx, "scan.pdf", content)
	if tr.calls != 2 {
		t.Errorf("transform calls = %d, want 2 (error results do not stick)", tr.calls)
	}
}

type countingGenerator struct {
	calls int
}

func (g *countingGenerator) Complete(context.Context, string) (string, error) {
	g.calls++
	return `{"personalInfo":{"fullName":"Jane Doe"},"sections":[]}`, nil
}

func TestParseSameTextFromDistinctFilesSharesTransform(t *testing.T) {
	// Two byte-distinct files that extract to identical text hit the
	// transform-level cache even though their file fingerprints differ.
	c := cache.NewLayered(cache.Options{MaxEntries: 10}, nil, nil)
	gen := &countingGenerator{}
	ext := &countingExtractor{text: "Jane Doe\nSoftware Engineer"}
	p := New(ext, llm.NewTransformer(gen, c, nil), c, nil)
	ctx := context.Background()

	p.Parse(ctx, "resume.pdf", []byte("pdf encoding of the resume"))
	p.Parse(ctx, "resume.docx", []byte("docx encoding of the resume"))

	if ext.calls != 2 {
		t.Errorf("extract calls = %d, want 2 (distinct file fingerprints)", ext.calls)
	}
	if gen.calls != 1 {
		t.Errorf("completion calls = %d, want 1 (shared text fingerprint)", gen.calls)
	}
}
