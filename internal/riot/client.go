package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// API base URLs. Match-V5 and Account-V1 are served by the regional
	// cluster, League-V4 by the platform host.
	DefaultRegionalURL = "https://americas.api.riotgames.com"
	DefaultPlatformURL = "https://la1.api.riotgames.com"

	// Rate limits for dev key (using conservative values to be safe)
	requestsPerSecond = 15 // Actual: 20, using 15 for safety
	requestsPer2Min   = 90 // Actual: 100, using 90 for safety

	maxRateLimitRetries = 3
	defaultRetryAfter   = 10 * time.Second

	rankedSoloQueue = "RANKED_SOLO_5x5"

	// Only the upper half of the grandmaster ladder is harvested
	grandmasterLadderCap = 250
)

// APIError is returned for any non-200 response
type APIError struct {
	StatusCode int
	Path       string
}

func (e *APIError) Error() string {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Sprintf("API returned %d for %s - check if your API key is valid", e.StatusCode, e.Path)
	case http.StatusNotFound:
		return fmt.Sprintf("API returned 404 for %s - player/match may not exist", e.Path)
	default:
		return fmt.Sprintf("API returned status %d for %s", e.StatusCode, e.Path)
	}
}

// KeyRejected reports whether the API key was refused (401/403)
func (e *APIError) KeyRejected() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsKeyRejected reports whether err carries a 401/403 from the Riot API
func IsKeyRejected(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.KeyRejected()
}

// Client is a rate-limited Riot API client
type Client struct {
	apiKey      string
	httpClient  *http.Client
	regionalURL string
	platformURL string

	// Rate limiting
	mu          sync.Mutex
	perSecond   int
	per2Min     int
	shortWindow []time.Time // Requests in last second
	longWindow  []time.Time // Requests in last 2 minutes
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithRegionalURL overrides the Match-V5 / Account-V1 host (useful for testing)
func WithRegionalURL(u string) ClientOption {
	return func(c *Client) {
		c.regionalURL = strings.TrimRight(u, "/")
	}
}

// WithPlatformURL overrides the League-V4 host
func WithPlatformURL(u string) ClientOption {
	return func(c *Client) {
		c.platformURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateWindows overrides the per-second and per-2-minute request budgets
func WithRateWindows(perSecond, per2Min int) ClientOption {
	return func(c *Client) {
		c.perSecond = perSecond
		c.per2Min = per2Min
	}
}

// NewClient creates a new Riot API client
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("riot API key not set (RIOT_API_KEY)")
	}

	c := &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		regionalURL: DefaultRegionalURL,
		platformURL: DefaultPlatformURL,
		perSecond:   requestsPerSecond,
		per2Min:     requestsPer2Min,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MaskedKey returns the key with only its prefix and suffix visible
func (c *Client) MaskedKey() string {
	if len(c.apiKey) <= 12 {
		return "****"
	}
	return c.apiKey[:8] + "..." + c.apiKey[len(c.apiKey)-4:]
}

// waitForRateLimit blocks until we can make another request
func (c *Client) waitForRateLimit(ctx context.Context) error {
	for {
		c.mu.Lock()
		now := time.Now()

		c.shortWindow = pruneBefore(c.shortWindow, now.Add(-time.Second))
		c.longWindow = pruneBefore(c.longWindow, now.Add(-2*time.Minute))

		var waitTime time.Duration
		switch {
		case len(c.shortWindow) >= c.perSecond:
			waitTime = c.shortWindow[0].Add(time.Second).Sub(now) + 100*time.Millisecond
		case len(c.longWindow) >= c.per2Min:
			waitTime = c.longWindow[0].Add(2*time.Minute).Sub(now) + 100*time.Millisecond
			log.Printf("[Riot] %d req/2min, waiting %.1fs...", len(c.longWindow), waitTime.Seconds())
		default:
			c.shortWindow = append(c.shortWindow, now)
			c.longWindow = append(c.longWindow, now)
			c.mu.Unlock()
			return nil
		}
		c.mu.Unlock()

		if err := sleepCtx(ctx, waitTime); err != nil {
			return err
		}
	}
}

func pruneBefore(window []time.Time, cutoff time.Time) []time.Time {
	kept := window[:0]
	for _, t := range window {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// doRequest makes a rate-limited GET and decodes the JSON body into result.
// 429 responses are retried after Retry-After, up to maxRateLimitRetries.
func (c *Client) doRequest(ctx context.Context, base, path string, result interface{}) error {
	for attempt := 0; ; attempt++ {
		if err := c.waitForRateLimit(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
		if err != nil {
			return err
		}
		req.Header.Set("X-Riot-Token", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxRateLimitRetries {
			resp.Body.Close()
			waitTime := defaultRetryAfter
			if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
				waitTime = time.Duration(secs) * time.Second
			}
			log.Printf("[Riot] 429 rate limited on %s, waiting %s...", path, waitTime)
			if err := sleepCtx(ctx, waitTime); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return &APIError{StatusCode: resp.StatusCode, Path: path}
		}

		err = json.NewDecoder(resp.Body).Decode(result)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	}
}

// GetAccountByRiotID fetches account info by Riot ID (gameName#tagLine)
func (c *Client) GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (*AccountResponse, error) {
	path := fmt.Sprintf("/riot/account/v1/accounts/by-riot-id/%s/%s",
		url.PathEscape(gameName), url.PathEscape(tagLine))

	var account AccountResponse
	if err := c.doRequest(ctx, c.regionalURL, path, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountByPUUID fetches the Riot ID behind a PUUID
func (c *Client) GetAccountByPUUID(ctx context.Context, puuid string) (*AccountResponse, error) {
	path := "/riot/account/v1/accounts/by-puuid/" + url.PathEscape(puuid)

	var account AccountResponse
	if err := c.doRequest(ctx, c.regionalURL, path, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// HistoryQuery filters a match history request. Zero values are omitted.
type HistoryQuery struct {
	Queue int    // 420 = ranked solo
	Type  string // ranked, normal, tourney, tutorial
	Start int
	Count int
}

func (q HistoryQuery) encode() string {
	v := url.Values{}
	if q.Queue > 0 {
		v.Set("queue", strconv.Itoa(q.Queue))
	}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.Start > 0 {
		v.Set("start", strconv.Itoa(q.Start))
	}
	if q.Count > 0 {
		v.Set("count", strconv.Itoa(q.Count))
	}
	return v.Encode()
}

// GetMatchHistory fetches match IDs for a player, most recent first
func (c *Client) GetMatchHistory(ctx context.Context, puuid string, q HistoryQuery) ([]string, error) {
	path := fmt.Sprintf("/lol/match/v5/matches/by-puuid/%s/ids", url.PathEscape(puuid))
	if qs := q.encode(); qs != "" {
		path += "?" + qs
	}

	var matchIDs []string
	err := c.doRequest(ctx, c.regionalURL, path, &matchIDs)
	return matchIDs, err
}

// GetMatch fetches match details
func (c *Client) GetMatch(ctx context.Context, matchID string) (*MatchResponse, error) {
	path := "/lol/match/v5/matches/" + url.PathEscape(matchID)

	var match MatchResponse
	if err := c.doRequest(ctx, c.regionalURL, path, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// GetTimeline fetches match timeline
func (c *Client) GetTimeline(ctx context.Context, matchID string) (*TimelineResponse, error) {
	path := fmt.Sprintf("/lol/match/v5/matches/%s/timeline", url.PathEscape(matchID))

	var timeline TimelineResponse
	if err := c.doRequest(ctx, c.regionalURL, path, &timeline); err != nil {
		return nil, err
	}
	return &timeline, nil
}

// GetChallengerLadder returns the Challenger solo queue PUUIDs, highest LP first
func (c *Client) GetChallengerLadder(ctx context.Context) ([]string, error) {
	return c.getApexLadder(ctx, "challengerleagues", 0)
}

// GetGrandmasterLadder returns the upper half of the Grandmaster solo queue
// ladder, highest LP first
func (c *Client) GetGrandmasterLadder(ctx context.Context) ([]string, error) {
	return c.getApexLadder(ctx, "grandmasterleagues", grandmasterLadderCap)
}

// GetMasterLadder returns the Master solo queue PUUIDs, highest LP first
func (c *Client) GetMasterLadder(ctx context.Context) ([]string, error) {
	return c.getApexLadder(ctx, "masterleagues", 0)
}

func (c *Client) getApexLadder(ctx context.Context, league string, limit int) ([]string, error) {
	path := fmt.Sprintf("/lol/league/v4/%s/by-queue/%s", league, rankedSoloQueue)

	var list LeagueListResponse
	if err := c.doRequest(ctx, c.platformURL, path, &list); err != nil {
		return nil, err
	}

	entries := list.Entries
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LeaguePoints > entries[j].LeaguePoints
	})

	seen := make(map[string]bool, len(entries))
	puuids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.PUUID == "" || seen[e.PUUID] {
			continue
		}
		seen[e.PUUID] = true
		puuids = append(puuids, e.PUUID)
		if limit > 0 && len(puuids) >= limit {
			break
		}
	}
	return puuids, nil
}

// GetLeagueEntries returns one page of a tier/division ladder as PUUIDs.
// Apex tiers are routed to their dedicated endpoints (page is ignored).
func (c *Client) GetLeagueEntries(ctx context.Context, tier, division string, page int) ([]string, error) {
	if err := ValidateLadder(tier, division); err != nil {
		return nil, err
	}
	switch tier {
	case "CHALLENGER":
		return c.GetChallengerLadder(ctx)
	case "GRANDMASTER":
		return c.GetGrandmasterLadder(ctx)
	case "MASTER":
		return c.GetMasterLadder(ctx)
	}

	if page < 1 {
		page = 1
	}
	path := fmt.Sprintf("/lol/league/v4/entries/%s/%s/%s?page=%d", rankedSoloQueue, tier, division, page)

	var entries []LeagueEntryResponse
	if err := c.doRequest(ctx, c.platformURL, path, &entries); err != nil {
		return nil, err
	}

	puuids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.PUUID != "" {
			puuids = append(puuids, e.PUUID)
		}
	}
	return puuids, nil
}

// ParseRiotID splits "GameName#TagLine"
func ParseRiotID(riotID string) (gameName, tagLine string, err error) {
	parts := strings.SplitN(riotID, "#", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", "", fmt.Errorf("invalid Riot ID format '%s', expected 'GameName#TagLine'", riotID)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}
