package llm

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/RiikenJobstack/jobstackParser/internal/cache"
	"github.com/RiikenJobstack/jobstackParser/internal/entity"
	"github.com/RiikenJobstack/jobstackParser/internal/fingerprint"
)

// Generator is the completion service the transform stage depends on.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Transformer converts extracted resume text into the structured document.
// Results are cached by text fingerprint, so identical text extracted from
// different files shares one entry. Failures are returned as the error-object
// variant and are never cached: the next identical request retries.
type Transformer struct {
	gen    Generator
	cache  *cache.Layered
	schema *jsonschema.Schema // nil disables the advisory shape check
	log    *slog.Logger
}

func NewTransformer(gen Generator, c *cache.Layered, logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	schema, err := compileResumeSchema()
	if err != nil {
		logger.Warn("llm.transform.schema_unavailable", "error", err)
	}
	return &Transformer{
		gen:    gen,
		cache:  c,
		schema: schema,
		log:    logger,
	}
}

// Transform returns either the structured resume document or the error-object
// variant. It never returns an error: processing failures are data.
func (t *Transformer) Transform(ctx context.Context, rawText string) json.RawMessage {
	key := cache.Key(cache.NSTransform, fingerprint.Text(rawText))
	if b, ok := t.cache.Get(ctx, key); ok {
		t.log.Debug("llm.transform.cache_hit", "key", key)
		return b
	}

	content, err := t.gen.Complete(ctx, BuildPrompt(rawText))
	if err != nil {
		t.log.Error("llm.transform.complete_failed", "error", err)
		return entity.ErrorJSON(err.Error())
	}

	raw := json.RawMessage(content)
	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		t.log.Error("llm.transform.non_json_response", "error", err, "content_len", len(content))
		return entity.ErrorJSON(err.Error())
	}

	// Advisory only: a shape mismatch is logged, never repaired or rejected.
	if t.schema != nil {
		if err := validateDocument(t.schema, raw); err != nil {
			t.log.Warn("llm.transform.schema_mismatch", "error", err)
		}
	}

	t.cache.Set(ctx, key, raw)
	t.log.Info("llm.transform.ok", "key", key, "bytes", len(raw))
	return raw
}
