package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/forgewatch/forgewatch/internal/domain/types"
	"github.com/forgewatch/forgewatch/pkg/logger"
)

const defaultTimeout = 30 * time.Second

// Verifier checks a running pipeline over its HTTP surface.
type Verifier struct {
	baseURL string
	client  *http.Client
	log     logger.Logger
}

// NewVerifier creates a verifier against baseURL.
func NewVerifier(baseURL string) *Verifier {
	return &Verifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		log:     logger.Get().Named("simulate"),
	}
}

// CheckHealth verifies the service answers its health endpoint.
func (v *Verifier) CheckHealth(ctx context.Context) error {
	resp, err := v.get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	v.log.Info(ctx, "service is healthy")
	return nil
}

// FetchRecent pulls the k most recent history entries.
func (v *Verifier) FetchRecent(ctx context.Context, k int) ([]types.HistoryEntryView, error) {
	resp, err := v.get(ctx, fmt.Sprintf("/history/recent?k=%d", k))
	if err != nil {
		return nil, fmt.Errorf("fetch recent history: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch recent history: unexpected status %d", resp.StatusCode)
	}
	var views []types.HistoryEntryView
	if err := json.NewDecoder(resp.Body).Decode(&views); err != nil {
		return nil, fmt.Errorf("decode recent history: %w", err)
	}
	return views, nil
}

// VerifyRecent checks that fetched history entries are internally
// consistent: identifiers strictly ascending, priorities in range and
// each decision attributed to its own unit.
func (v *Verifier) VerifyRecent(ctx context.Context, entries []types.HistoryEntryView) error {
	if len(entries) == 0 {
		return fmt.Errorf("no history entries to verify")
	}
	for i, e := range entries {
		if i > 0 && e.Reading.UnitID <= entries[i-1].Reading.UnitID {
			return fmt.Errorf("entry %d: identifier %d not ascending", i, e.Reading.UnitID)
		}
		if e.Decision.UnitID != e.Reading.UnitID {
			return fmt.Errorf("entry %d: decision unit %d does not match reading unit %d",
				i, e.Decision.UnitID, e.Reading.UnitID)
		}
		if e.Decision.Priority < 1 || e.Decision.Priority > 6 {
			return fmt.Errorf("entry %d: priority %d out of range", i, e.Decision.Priority)
		}
		if e.Decision.Action == "" {
			return fmt.Errorf("entry %d: missing action", i)
		}
	}
	v.log.Info(ctx, "history verification passed", logger.Int("entries", len(entries)))
	return nil
}

func (v *Verifier) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return v.client.Do(req)
}
