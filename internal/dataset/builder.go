package dataset

import (
	"context"
	"errors"
	"fmt"

	"match-analyzer/internal/match"
)

// Fetcher retrieves parsed match payloads
type Fetcher interface {
	FetchSummary(ctx context.Context, matchID string) (*match.Summary, error)
	FetchTimeline(ctx context.Context, matchID string) (*match.Timeline, error)
}

// errPaced marks a pacer wait that failed, e.g. because the next slot falls
// after the context deadline. It ends the build rather than the match.
var errPaced = errors.New("pacer")

// Status is the per-match result of a build
type Status string

const (
	StatusAdded     Status = "added"
	StatusDuplicate Status = "skipped-duplicate"
	StatusSkipped   Status = "skipped"
	StatusError     Status = "error"
)

// Outcome describes what happened to one match id
type Outcome struct {
	MatchID string
	Status  Status
	// Reason is set for skipped matches
	Reason match.SkipReason
	// Err is set for errored matches
	Err error
	// Record is set for added matches
	Record *match.FeatureRecord
}

// Summary counts outcomes by status
type Summary struct {
	Added      int
	Duplicates int
	Skipped    int
	Errored    int
	// Anomalies counts added records whose winner could not be determined
	Anomalies int
}

func (s *Summary) count(o Outcome) {
	switch o.Status {
	case StatusAdded:
		s.Added++
		if o.Record != nil && o.Record.WinnerAnomaly {
			s.Anomalies++
		}
	case StatusDuplicate:
		s.Duplicates++
	case StatusSkipped:
		s.Skipped++
	case StatusError:
		s.Errored++
	}
}

// Merge adds the counts of o
func (s *Summary) Merge(o Summary) {
	s.Added += o.Added
	s.Duplicates += o.Duplicates
	s.Skipped += o.Skipped
	s.Errored += o.Errored
	s.Anomalies += o.Anomalies
}

// Result is the output of one build
type Result struct {
	// Dataset is the existing rows followed by the rows added in this build
	Dataset  Dataset
	Outcomes []Outcome
	Summary  Summary
}

// Builder appends feature records for new match ids to a dataset
type Builder struct {
	fetcher  Fetcher
	composer match.Composer
	pacer    Pacer

	onOutcome       func(Outcome)
	checkpoint      Store
	checkpointEvery int
}

// Option configures a Builder
type Option func(*Builder)

// WithPacer replaces the default one-call-per-second pacer
func WithPacer(p Pacer) Option {
	return func(b *Builder) {
		b.pacer = p
	}
}

// WithMinute changes the feature cutoff minute
func WithMinute(minute int) Option {
	return func(b *Builder) {
		b.composer.Minute = minute
	}
}

// WithOutcomeHook registers fn to be called after each match id is handled
func WithOutcomeHook(fn func(Outcome)) Option {
	return func(b *Builder) {
		b.onOutcome = fn
	}
}

// WithCheckpoint persists the partial dataset to store after every n added
// rows
func WithCheckpoint(store Store, n int) Option {
	return func(b *Builder) {
		b.checkpoint = store
		b.checkpointEvery = n
	}
}

// NewBuilder creates a builder reading payloads from f
func NewBuilder(f Fetcher, opts ...Option) *Builder {
	b := &Builder{
		fetcher:  f,
		composer: match.NewComposer(),
		pacer:    NewRatePacer(DefaultInterval),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build processes ids in order from the perspective of puuid. Matches already
// in existing, or seen earlier in ids, are skipped without a fetch. A single
// failing match never aborts the build.
//
// If ctx is cancelled the builder stops between matches and returns the
// partial result together with ctx.Err(). The same happens, with the pacer's
// error, when the next request cannot be paced before ctx's deadline; the
// unfetched id gets no outcome. ErrCorruptDataset is returned with
// a nil result when existing violates the primary-key invariant.
func (b *Builder) Build(ctx context.Context, ids []string, puuid string, existing Dataset) (*Result, error) {
	if err := existing.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(existing)+len(ids))
	for _, r := range existing {
		seen[r.MatchID] = true
	}

	res := &Result{
		Dataset:  append(make(Dataset, 0, len(existing)+len(ids)), existing...),
		Outcomes: make([]Outcome, 0, len(ids)),
	}
	sinceCheckpoint := 0

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var outcome Outcome
		if seen[id] {
			outcome = Outcome{MatchID: id, Status: StatusDuplicate}
		} else {
			seen[id] = true
			rec, err := b.process(ctx, id, puuid)
			if err != nil && ctx.Err() != nil {
				// Interrupted mid-fetch; leave the id for the next run.
				return res, ctx.Err()
			}
			if errors.Is(err, errPaced) {
				// The next request cannot be scheduled before the deadline
				return res, err
			}
			outcome = classify(id, rec, err)
		}

		if outcome.Status == StatusAdded {
			res.Dataset = append(res.Dataset, *outcome.Record)
			sinceCheckpoint++
		}
		res.Outcomes = append(res.Outcomes, outcome)
		res.Summary.count(outcome)
		if b.onOutcome != nil {
			b.onOutcome(outcome)
		}

		if b.checkpoint != nil && b.checkpointEvery > 0 && sinceCheckpoint >= b.checkpointEvery {
			if err := b.checkpoint.Persist(ctx, res.Dataset); err != nil {
				return res, fmt.Errorf("checkpoint after %s: %w", id, err)
			}
			sinceCheckpoint = 0
		}
	}

	return res, nil
}

func (b *Builder) process(ctx context.Context, id, puuid string) (*match.FeatureRecord, error) {
	if err := b.pacer.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", errPaced, err)
	}
	summary, err := b.fetcher.FetchSummary(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch summary: %w", err)
	}

	if err := b.pacer.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", errPaced, err)
	}
	timeline, err := b.fetcher.FetchTimeline(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch timeline: %w", err)
	}

	rec, err := b.composer.Compose(id, puuid, summary, timeline)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func classify(id string, rec *match.FeatureRecord, err error) Outcome {
	if err == nil {
		return Outcome{MatchID: id, Status: StatusAdded, Record: rec}
	}
	var skip *match.SkipError
	if errors.As(err, &skip) {
		return Outcome{MatchID: id, Status: StatusSkipped, Reason: skip.Reason, Err: err}
	}
	return Outcome{MatchID: id, Status: StatusError, Err: err}
}
