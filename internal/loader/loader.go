// Package loader fetches a card repository's index and every referenced
// set document, validates them, and assembles an immutable catalog.
//
// Failures are contained by blast radius: a bad card drops that card, a
// bad set drops that set, and only index-level problems abort the load.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/JustBryant/YGOMod-Card-Database/internal/catalog"
	"github.com/JustBryant/YGOMod-Card-Database/internal/model"
	"github.com/JustBryant/YGOMod-Card-Database/internal/schema"
	"github.com/JustBryant/YGOMod-Card-Database/internal/source"
)

// Index-level failures abort the whole load; no catalog is returned.
var (
	ErrUnreachableSource = errors.New("source unreachable")
	ErrMalformedIndex    = errors.New("malformed index")
	ErrDuplicateSetID    = errors.New("duplicate set id in index")
	ErrLoadCancelled     = errors.New("load cancelled")
)

// Config tunes a Loader. The zero value picks sensible defaults.
type Config struct {
	Workers      int        // concurrent set fetches, default NumCPU capped at 8
	RateLimit    rate.Limit // set fetches per second, default 5
	CheckOrphans bool       // warn about JSON files the index never references
	Progress     func(completed, total int)
	Now          func() time.Time // release-date lint clock, default time.Now
}

// Loader loads one repository addressed by its index document.
type Loader struct {
	src     source.Source
	index   string
	cfg     Config
	limiter *rate.Limiter
}

// New creates a loader for the index document named index within src.
func New(src source.Source, index string, cfg Config) *Loader {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
		if cfg.Workers > 8 {
			cfg.Workers = 8
		}
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = rate.Limit(5)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Loader{
		src:     src,
		index:   index,
		cfg:     cfg,
		limiter: rate.NewLimiter(cfg.RateLimit, cfg.Workers),
	}
}

type setResult struct {
	set    model.CardSet
	issues []catalog.Issue
	ok     bool
}

// Load fetches and validates the whole repository. The returned catalog
// contains every set that survived validation plus the issue list; a nil
// catalog is returned only for index-level failures and cancellation.
func (l *Loader) Load(ctx context.Context) (*catalog.Catalog, error) {
	idx, err := l.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(idx.Sets))
	for _, ref := range idx.Sets {
		if seen[ref.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSetID, ref.ID)
		}
		seen[ref.ID] = true
	}

	// Fan out one fetch per set reference. Each worker writes only its own
	// slot, so no locking is needed around results.
	results := make([]setResult, len(idx.Sets))
	jobs := make(chan int)
	var wg sync.WaitGroup
	var completed atomic.Int32

	for w := 0; w < l.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pos := range jobs {
				if ctx.Err() != nil {
					return
				}
				if err := l.limiter.Wait(ctx); err != nil {
					return
				}
				results[pos] = l.loadSet(ctx, idx.Sets[pos])
				if l.cfg.Progress != nil {
					l.cfg.Progress(int(completed.Add(1)), len(idx.Sets))
				}
			}
		}()
	}

	for pos := range idx.Sets {
		select {
		case jobs <- pos:
		case <-ctx.Done():
		}
	}
	close(jobs)
	wg.Wait()

	// A cancelled load never exposes a partial catalog.
	if ctx.Err() != nil {
		return nil, ErrLoadCancelled
	}

	b := catalog.NewBuilder(idx.RepositoryInfo)

	for _, ref := range idx.Sets {
		if msg, ok := schema.CheckReleaseDate(ref.ReleaseDate, l.cfg.Now()); !ok {
			b.Record(catalog.Issue{
				Code:      catalog.CodeReleaseDate,
				Severity:  catalog.SeverityWarning,
				SetID:     ref.ID,
				CardIndex: catalog.NoCard,
				Message:   msg,
			})
		}
	}

	for pos, ref := range idx.Sets {
		res := results[pos]
		b.Record(res.issues...)
		if !res.ok {
			continue
		}
		for _, dup := range b.AddSet(res.set) {
			b.Record(catalog.Issue{
				Code:      catalog.CodeDuplicateCardID,
				Severity:  catalog.SeverityWarning,
				SetID:     ref.ID,
				CardIndex: catalog.NoCard,
				Message:   fmt.Sprintf("card id %d already loaded from an earlier set, keeping the first occurrence", dup),
			})
		}
	}

	if l.cfg.CheckOrphans {
		l.recordOrphans(ctx, b, idx)
	}

	return b.Build(), nil
}

func (l *Loader) loadIndex(ctx context.Context) (model.RepositoryIndex, error) {
	var idx model.RepositoryIndex

	data, err := l.src.Fetch(ctx, l.index)
	if err != nil {
		if ctx.Err() != nil {
			return idx, ErrLoadCancelled
		}
		return idx, fmt.Errorf("%w: %v", ErrUnreachableSource, err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return idx, fmt.Errorf("%w: %v", ErrMalformedIndex, err)
	}
	for _, key := range []string{"repository_info", "sets"} {
		if _, ok := probe[key]; !ok {
			return idx, fmt.Errorf("%w: missing %q", ErrMalformedIndex, key)
		}
	}
	if err := json.Unmarshal(data, &idx); err != nil {
		return idx, fmt.Errorf("%w: %v", ErrMalformedIndex, err)
	}
	return idx, nil
}

// loadSet fetches and validates one set document. All failures are
// reported as issues; a set-level failure returns ok=false so the set is
// omitted from the catalog while the rest of the load continues.
func (l *Loader) loadSet(ctx context.Context, ref model.SetReference) setResult {
	issue := func(code catalog.Code, sev catalog.Severity, cardIndex int, format string, args ...any) catalog.Issue {
		return catalog.Issue{
			Code:      code,
			Severity:  sev,
			SetID:     ref.ID,
			CardIndex: cardIndex,
			Message:   fmt.Sprintf(format, args...),
		}
	}

	data, err := l.src.Fetch(ctx, ref.File)
	if err != nil {
		return setResult{issues: []catalog.Issue{
			issue(catalog.CodeMalformedSet, catalog.SeverityError, catalog.NoCard, "fetch %s: %v", ref.File, err),
		}}
	}

	var raw model.RawCardSet
	if err := json.Unmarshal(data, &raw); err != nil {
		return setResult{issues: []catalog.Issue{
			issue(catalog.CodeMalformedSet, catalog.SeverityError, catalog.NoCard, "parse %s: %v", ref.File, err),
		}}
	}

	if raw.SetInfo.ID != ref.ID {
		return setResult{issues: []catalog.Issue{
			issue(catalog.CodeSetIDMismatch, catalog.SeverityError, catalog.NoCard,
				"set_info.id %q does not match index reference %q", raw.SetInfo.ID, ref.ID),
		}}
	}

	if ref.CardCount != len(raw.Cards) {
		return setResult{issues: []catalog.Issue{
			issue(catalog.CodeCardCountMismatch, catalog.SeverityError, catalog.NoCard,
				"index declares %d cards but %s contains %d", ref.CardCount, ref.File, len(raw.Cards)),
		}}
	}
	if raw.SetInfo.CardCount != len(raw.Cards) {
		return setResult{issues: []catalog.Issue{
			issue(catalog.CodeCardCountMismatch, catalog.SeverityError, catalog.NoCard,
				"set_info.card_count declares %d cards but %s contains %d", raw.SetInfo.CardCount, ref.File, len(raw.Cards)),
		}}
	}

	var issues []catalog.Issue
	if msg, ok := schema.CheckReleaseDate(raw.SetInfo.ReleaseDate, l.cfg.Now()); !ok {
		issues = append(issues, issue(catalog.CodeReleaseDate, catalog.SeverityWarning, catalog.NoCard, "%s", msg))
	}

	set := model.CardSet{
		SetInfo: raw.SetInfo,
		Cards:   make([]model.Card, 0, len(raw.Cards)),
	}
	for i, rawCard := range raw.Cards {
		card, lints, err := schema.ValidateCard(rawCard)
		for _, lint := range lints {
			issues = append(issues, issue(catalog.CodeCardLint, catalog.SeverityWarning, i, "%s", lint))
		}
		if err != nil {
			// Drop the card, keep the set.
			issues = append(issues, issue(catalog.CodeInvalidCard, catalog.SeverityError, i, "card %d: %v", rawCard.ID, err))
			continue
		}
		set.Cards = append(set.Cards, card)
	}

	return setResult{set: set, issues: issues, ok: true}
}

func (l *Loader) recordOrphans(ctx context.Context, b *catalog.Builder, idx model.RepositoryIndex) {
	names, err := l.src.ListJSON(ctx)
	if err != nil {
		// Sources without a listing cannot be checked for orphans.
		return
	}

	referenced := map[string]bool{l.index: true}
	for _, ref := range idx.Sets {
		referenced[ref.File] = true
	}

	for _, name := range names {
		if referenced[name] {
			continue
		}
		b.Record(catalog.Issue{
			Code:      catalog.CodeOrphanFile,
			Severity:  catalog.SeverityWarning,
			CardIndex: catalog.NoCard,
			Message:   fmt.Sprintf("%s is present in the repository but not referenced by the index", name),
		})
	}
}
