package collector

import (
	"context"
	"errors"
	"testing"

	"match-analyzer/internal/match"
	"match-analyzer/internal/riot"
	"match-analyzer/internal/storage"
)

type memArchive struct {
	records []storage.ArchivedMatch
}

func (m *memArchive) Append(rec storage.ArchivedMatch) error {
	m.records = append(m.records, rec)
	return nil
}

func TestRiotSource_ArchivesPairs(t *testing.T) {
	archive := &memArchive{}
	src := NewRiotSource(&fakeRiot{}, archive)
	ctx := context.Background()

	s, err := src.FetchSummary(ctx, "LA1_1")
	if err != nil {
		t.Fatalf("FetchSummary: %v", err)
	}
	if len(s.ParticipantIDs) != match.MaxSlot {
		t.Errorf("participants = %d", len(s.ParticipantIDs))
	}
	if len(archive.records) != 0 {
		t.Error("summary alone should not be archived")
	}

	tl, err := src.FetchTimeline(ctx, "LA1_1")
	if err != nil {
		t.Fatalf("FetchTimeline: %v", err)
	}
	if len(tl.Frames) != match.FeatureMinute+1 {
		t.Errorf("frames = %d", len(tl.Frames))
	}

	if len(archive.records) != 1 {
		t.Fatalf("archived = %d, want 1", len(archive.records))
	}
	rec := archive.records[0]
	if rec.MatchID != "LA1_1" || rec.Summary == nil || rec.Timeline == nil {
		t.Errorf("archived record = %+v", rec)
	}
	if len(src.pending) != 0 {
		t.Errorf("pending not cleared: %d", len(src.pending))
	}
}

func TestRiotSource_MalformedSummary(t *testing.T) {
	api := &malformedAPI{}
	_, err := NewRiotSource(api, nil).FetchSummary(context.Background(), "LA1_1")
	if !errors.Is(err, match.ErrMalformedPayload) {
		t.Errorf("err = %v, want ErrMalformedPayload", err)
	}
}

type malformedAPI struct{ fakeRiot }

func (m *malformedAPI) GetMatch(ctx context.Context, matchID string) (*riot.MatchResponse, error) {
	return &riot.MatchResponse{}, nil
}

func TestRiotSource_PassesAPIError(t *testing.T) {
	api := &fakeRiot{matchErr: map[string]error{"LA1_1": &riot.APIError{StatusCode: 404}}}
	_, err := NewRiotSource(api, nil).FetchSummary(context.Background(), "LA1_1")

	var apiErr *riot.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 404 {
		t.Errorf("err = %v, want APIError 404", err)
	}
}
