package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// OCRConfig configures the text-recognition engine.
type OCRConfig struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Lang      string // default "eng"
	DPI       int    // rasterization DPI for scanned PDFs, default 300
	MaxPages  int    // 0 = no limit
}

// OCREngine runs the recognition binaries. Initialization resolves the
// binaries once on first use and the engine is then reused for the process
// lifetime.
type OCREngine struct {
	cfg    OCRConfig
	runner Runner
	log    *slog.Logger
	verify bool // resolve binaries on first use; off when commands are stubbed

	initOnce sync.Once
	initErr  error
}

func NewOCREngine(cfg OCRConfig, runner Runner, logger *slog.Logger) *OCREngine {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	verify := runner == nil
	if runner == nil {
		runner = execRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OCREngine{cfg: cfg, runner: runner, log: logger, verify: verify}
}

func (e *OCREngine) init() error {
	e.initOnce.Do(func() {
		if e.verify {
			for _, bin := range []string{e.cfg.Tesseract, e.cfg.Pdftoppm} {
				if _, err := exec.LookPath(bin); err != nil {
					e.initErr = fmt.Errorf("ocr binary %q not found: %w", bin, err)
					return
				}
			}
		}
		e.log.Info("ocr.engine.ready", "tesseract", e.cfg.Tesseract, "pdftoppm", e.cfg.Pdftoppm, "lang", e.cfg.Lang)
	})
	return e.initErr
}

// RecognizeImage runs text recognition over a single decoded image.
func (e *OCREngine) RecognizeImage(ctx context.Context, content []byte) (string, error) {
	if err := e.init(); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp("", "resume-img-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil {
			e.log.Warn("ocr.tmpfile.remove_failed", "path", tmp.Name(), "error", err)
		}
	}()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	return e.tesseract(ctx, tmp.Name())
}

// RecognizePDF rasterizes each page and runs recognition over the page
// images, concatenating recognized text with newline separators.
func (e *OCREngine) RecognizePDF(ctx context.Context, content []byte) (string, error) {
	if err := e.init(); err != nil {
		return "", err
	}
	tmpDir, err := os.MkdirTemp("", "resume-ocr-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.log.Warn("ocr.tmpdir.remove_failed", "path", tmpDir, "error", err)
		}
	}()

	in := filepath.Join(tmpDir, "in.pdf")
	if err := os.WriteFile(in, content, 0o600); err != nil {
		return "", err
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png in.pdf <tmp/page>
	if _, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", in, prefix); err != nil {
		return "", fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	// collect generated pngs (page-1.png, page-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no images")
	}

	var b strings.Builder
	recognized := 0
	for _, img := range matches {
		txt, err := e.tesseract(ctx, img)
		if err != nil {
			e.log.Warn("ocr.page_failed", "image", img, "error", err)
			continue
		}
		recognized++
		b.WriteString(strings.TrimRight(txt, "\n"))
		b.WriteString("\n")
	}
	if recognized == 0 {
		return "", fmt.Errorf("recognition failed on all %d pages", len(matches))
	}
	return b.String(), nil
}

func (e *OCREngine) tesseract(ctx context.Context, path string) (string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, path, "stdout", "-l", e.cfg.Lang)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
