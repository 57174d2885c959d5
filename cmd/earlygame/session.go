package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"match-analyzer/internal/collector"
	"match-analyzer/internal/dataset"
	"match-analyzer/internal/discord"
	"match-analyzer/internal/metrics"
	"match-analyzer/internal/report"
	"match-analyzer/internal/riot"
	"match-analyzer/internal/storage"
)

// session wires the Riot client, dataset store, archive, metrics and
// notifications for one build or harvest
type session struct {
	client     *riot.Client
	store      dataset.Store
	closeStore func() error
	rotator    *storage.FileRotator
	recorder   *metrics.Recorder
	webhook    *discord.WebhookClient
	pacer      dataset.Pacer
	builder    *dataset.Builder

	existing  dataset.Dataset
	startTime time.Time
}

type sessionOptions struct {
	checkpoint  int
	metricsAddr string
}

func newSession(ctx context.Context, opts sessionOptions) (*session, error) {
	client, err := riot.NewClient(cfg.RiotAPIKey,
		riot.WithRegionalURL(cfg.RegionalURL),
		riot.WithPlatformURL(cfg.PlatformURL),
	)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Using API key: %s\n", client.MaskedKey())

	store, closeStore, err := openStore(ctx, cfg.DatasetPath, cfg.TursoAuthToken)
	if err != nil {
		return nil, err
	}
	existing, err := store.Load(ctx)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("load dataset %s: %w", cfg.DatasetPath, err)
	}
	fmt.Printf("Dataset %s: %d rows\n", cfg.DatasetPath, len(existing))

	s := &session{
		client:     client,
		store:      store,
		closeStore: closeStore,
		recorder:   metrics.NewRecorder(),
		pacer:      dataset.NewRatePacer(cfg.Interval),
		existing:   existing,
		startTime:  time.Now(),
	}

	var archive collector.Archiver
	if cfg.ArchiveDir != "" {
		var rotOpts []storage.RotatorOption
		if cfg.ColdDir != "" {
			rotOpts = append(rotOpts, storage.WithColdDir(cfg.ColdDir))
		}
		s.rotator, err = storage.NewFileRotator(cfg.ArchiveDir, rotOpts...)
		if err != nil {
			closeStore()
			return nil, fmt.Errorf("open archive: %w", err)
		}
		archive = s.rotator
		fmt.Printf("Archiving raw payloads to: %s\n", cfg.ArchiveDir)
	}

	if cfg.DiscordWebhookURL != "" {
		s.webhook = discord.NewWebhookClient(cfg.DiscordWebhookURL)
	}

	addr := opts.metricsAddr
	if addr == "" {
		addr = cfg.MetricsAddr
	}
	if addr != "" {
		go func() {
			if err := s.recorder.Serve(ctx, addr); err != nil {
				log.Printf("[Metrics] Server error: %v", err)
			}
		}()
	}

	builderOpts := []dataset.Option{
		dataset.WithPacer(s.pacer),
		dataset.WithMinute(cfg.Minute),
		dataset.WithOutcomeHook(s.onOutcome),
	}
	if opts.checkpoint > 0 {
		builderOpts = append(builderOpts, dataset.WithCheckpoint(store, opts.checkpoint))
	}
	s.builder = dataset.NewBuilder(collector.NewRiotSource(client, archive), builderOpts...)

	return s, nil
}

func (s *session) historyQuery(start, count int) riot.HistoryQuery {
	return riot.HistoryQuery{Queue: cfg.Queue, Type: cfg.MatchType, Start: start, Count: count}
}

func (s *session) onOutcome(o dataset.Outcome) {
	s.recorder.Observe(o)
	switch o.Status {
	case dataset.StatusAdded:
		fmt.Printf("  + %s\n", o.MatchID)
	case dataset.StatusDuplicate:
		fmt.Printf("  = %s already in dataset\n", o.MatchID)
	case dataset.StatusSkipped:
		log.Printf("[Builder] Skipped %s: %s", o.MatchID, o.Reason)
	case dataset.StatusError:
		log.Printf("[Builder] Failed %s: %v", o.MatchID, o.Err)
	}
}

// finish persists whatever was built, prints the report and sends the
// notification. A cancelled run is reported as interrupted and is not an
// error; a rejected key is.
func (s *session) finish(source string, d dataset.Dataset, summary dataset.Summary, outcomes []dataset.Outcome, runErr error) error {
	defer s.close()

	// The run context may already be cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	interrupted := errors.Is(runErr, context.Canceled)
	if interrupted {
		fmt.Println("\n[Shutdown] Build interrupted, saving partial dataset...")
	}

	if d == nil {
		d = s.existing
	}
	if summary.Added > 0 || len(d) != len(s.existing) {
		if err := s.store.Persist(ctx, d); err != nil {
			return fmt.Errorf("persist dataset: %w", err)
		}
	}

	elapsed := time.Since(s.startTime)
	s.recorder.BuildFinished(len(d), elapsed)

	report.PrintBuildSummary(os.Stdout, summary, len(d))
	report.PrintOutcomes(os.Stdout, outcomes)

	if s.webhook != nil {
		var err error
		if collector.IsAPIKeyError(runErr) {
			err = s.webhook.SendKeyRejected(ctx, summary.Added, elapsed)
		} else {
			err = s.webhook.SendBuildReport(ctx, discord.BuildReport{
				Source:      source,
				Summary:     summary,
				Rows:        len(d),
				Runtime:     elapsed,
				Interrupted: interrupted,
				FinishedAt:  time.Now(),
			})
		}
		if err != nil {
			log.Printf("[Discord] Failed to send notification: %v", err)
		}
	}

	if interrupted {
		return nil
	}
	return runErr
}

func (s *session) close() {
	if s.rotator != nil {
		if err := s.rotator.Close(); err != nil {
			log.Printf("Error closing archive: %v", err)
		}
		if n, err := s.rotator.CompressWarm(); err != nil {
			log.Printf("Error compressing archive: %v", err)
		} else if n > 0 {
			fmt.Printf("Compressed %d archive files\n", n)
		}
	}
	if err := s.closeStore(); err != nil {
		log.Printf("Error closing dataset store: %v", err)
	}
}
