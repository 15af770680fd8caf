package gather

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Result is everything a run produced. On abort (context cancelled) or rate
// limit the document holds whatever was aggregated before the cut-off and is
// fully usable.
type Result struct {
	Document *Document
	Text     string
	Tokens   map[string]int
	Skipped  []Skip
	Aborted  bool
	Elapsed  time.Duration
}

// Run executes the flattening pipeline: enumerate, filter, fetch, aggregate,
// estimate. Per-file failures land in Result.Skipped; run-level failures
// (bad config, unreachable source, rate limit) are returned as errors. When
// the error is ErrRateLimited the partial Result is returned alongside it.
func Run(ctx context.Context, src Source, cfg Config, logger *zap.Logger) (*Result, error) {
	start := time.Now()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	filter, err := NewFilter(cfg)
	if err != nil {
		return nil, err
	}

	entries, err := src.ListEntries(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}
	aborted := errors.Is(err, context.Canceled)
	logger.Debug("enumeration complete",
		zap.String("source", src.Name()), zap.Int("candidates", len(entries)))

	doc := NewDocument(cfg.TotalSizeCap)
	var skipped []Skip

	for _, e := range entries {
		if aborted {
			break
		}
		if ctx.Err() != nil {
			// Coarse cancellation between files: the document so far stays
			// valid, same as hitting the size cap.
			aborted = true
			break
		}
		if !filter.ShouldInclude(e) {
			continue
		}
		if doc.CapReached() {
			doc.NoteSkippedAtCap()
			continue
		}

		text, err := src.FetchText(ctx, e)
		if err != nil {
			if errors.Is(err, ErrRateLimited) {
				return finish(src, doc, cfg, skipped, aborted, start, logger), ErrRateLimited
			}
			if errors.Is(err, context.Canceled) {
				aborted = true
				break
			}
			logger.Debug("skipping unreadable file", zap.String("path", e.Path), zap.Error(err))
			skipped = append(skipped, Skip{Path: e.Path, Reason: "read error: " + err.Error()})
			continue
		}
		if cfg.SkipBinary && IsBinary([]byte(text)) {
			skipped = append(skipped, Skip{Path: e.Path, Reason: "binary content"})
			continue
		}
		if cfg.StripComments {
			text = StripComments(e.Path, text)
		}
		doc.Append(e.Path, text)
	}

	res := finish(src, doc, cfg, skipped, aborted, start, logger)
	logger.Info("flattening complete",
		zap.String("source", src.Name()),
		zap.Int("files", doc.Files()),
		zap.Int64("bytes", doc.TotalBytes()),
		zap.Int("skipped", len(skipped)),
		zap.Bool("capReached", doc.CapReached()),
		zap.Bool("aborted", res.Aborted),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

func finish(src Source, doc *Document, cfg Config, skipped []Skip, aborted bool, start time.Time, logger *zap.Logger) *Result {
	var tree string
	if cfg.IncludeTree && doc.Files() > 0 {
		tree = RenderTree(rootLabel(src.Name()), doc.Paths())
	}
	text := doc.Render(tree)
	tokens := NewEstimator(logger).Estimate(text, cfg.Models)
	return &Result{
		Document: doc,
		Text:     text,
		Tokens:   tokens,
		Skipped:  skipped,
		Aborted:  aborted,
		Elapsed:  time.Since(start),
	}
}

// rootLabel derives the tree's root display name from the source name:
// the last path element of a directory or repository identifier.
func rootLabel(name string) string {
	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "root"
	}
	return base
}
