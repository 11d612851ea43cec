package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgpai22/capstudio/internal/caption"
)

type SetOptions struct {
	// Overlay stacks the translation above the original text.
	Overlay     bool
	Concurrency int
}

// TranslateSet translates the text of every caption in set. Ids and
// intervals are kept and each change goes back through caption.Update, so
// the result satisfies the same invariants as the input. Captions the
// model skipped keep their original text. A blank translation is an
// empty-text rejection, also in overlay mode.
func TranslateSet(
	ctx context.Context,
	tr Translator,
	set caption.Set,
	videoDuration float64,
	opts SetOptions,
) (caption.Set, error) {
	if len(set) == 0 {
		return set, nil
	}

	items := make([]TranslationItem, len(set))
	for i, c := range set {
		items[i] = TranslationItem{Index: i, Text: c.Text}
	}

	var (
		results []TranslationResult
		err     error
	)
	if ct, ok := tr.(ConcurrentTranslator); ok && opts.Concurrency > 1 {
		results, err = ct.TranslateWithConcurrency(ctx, items, opts.Concurrency)
	} else {
		results, err = tr.Translate(ctx, items)
	}
	if err != nil {
		return set, fmt.Errorf("translation failed: %w", err)
	}

	out := set
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(set) {
			continue
		}
		if strings.TrimSpace(r.Text) == "" {
			return set, fmt.Errorf("caption %d: %w", r.Index+1, caption.ErrEmptyText)
		}

		orig := set[r.Index]
		text := r.Text
		if opts.Overlay {
			text = r.Text + "\n" + orig.Text
		}

		out, err = caption.Update(
			out,
			orig.ID,
			caption.NewCandidate(text, orig.StartTime, orig.EndTime),
			videoDuration,
		)
		if err != nil {
			return set, fmt.Errorf("caption %d: %w", r.Index+1, err)
		}
	}
	return out, nil
}
