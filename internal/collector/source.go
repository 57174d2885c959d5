// Package collector connects the dataset builder to the Riot API: the
// production match fetcher and the ladder harvester.
package collector

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"match-analyzer/internal/match"
	"match-analyzer/internal/riot"
	"match-analyzer/internal/storage"
)

// MatchAPI is the part of the Riot client RiotSource needs
type MatchAPI interface {
	GetMatch(ctx context.Context, matchID string) (*riot.MatchResponse, error)
	GetTimeline(ctx context.Context, matchID string) (*riot.TimelineResponse, error)
}

// Archiver stores raw payloads
type Archiver interface {
	Append(m storage.ArchivedMatch) error
}

// RiotSource fetches and validates match payloads. With an archiver set,
// every summary/timeline pair is written as it arrives.
type RiotSource struct {
	api     MatchAPI
	archive Archiver

	mu      sync.Mutex
	pending map[string]*riot.MatchResponse
}

// NewRiotSource creates a fetcher over api. archive may be nil.
func NewRiotSource(api MatchAPI, archive Archiver) *RiotSource {
	return &RiotSource{
		api:     api,
		archive: archive,
		pending: make(map[string]*riot.MatchResponse),
	}
}

// FetchSummary fetches and parses a match summary
func (s *RiotSource) FetchSummary(ctx context.Context, matchID string) (*match.Summary, error) {
	raw, err := s.api.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	summary, err := match.ParseSummary(raw)
	if err != nil {
		return nil, fmt.Errorf("summary %s: %w", matchID, err)
	}

	if s.archive != nil {
		s.mu.Lock()
		s.pending[matchID] = raw
		s.mu.Unlock()
	}
	return summary, nil
}

// FetchTimeline fetches and parses a match timeline
func (s *RiotSource) FetchTimeline(ctx context.Context, matchID string) (*match.Timeline, error) {
	raw, err := s.api.GetTimeline(ctx, matchID)
	if err != nil {
		s.dropPending(matchID)
		return nil, err
	}
	tl, err := match.ParseTimeline(raw)
	if err != nil {
		s.dropPending(matchID)
		return nil, fmt.Errorf("timeline %s: %w", matchID, err)
	}

	if s.archive != nil {
		s.mu.Lock()
		summary := s.pending[matchID]
		delete(s.pending, matchID)
		s.mu.Unlock()

		rec := storage.ArchivedMatch{MatchID: matchID, FetchedAt: time.Now().UTC(), Summary: summary, Timeline: raw}
		if err := s.archive.Append(rec); err != nil {
			log.Printf("[Archive] Failed to archive %s: %v", matchID, err)
		}
	}
	return tl, nil
}

func (s *RiotSource) dropPending(matchID string) {
	s.mu.Lock()
	delete(s.pending, matchID)
	s.mu.Unlock()
}
