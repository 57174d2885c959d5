package riot

import (
	"context"
	"time"
)

// statusPath is the cheapest authenticated call on the platform host
const statusPath = "/lol/status/v4/platform-data"

const keyCheckTimeout = 10 * time.Second

// PlatformStatus is the subset of the LoL Status API response we show
type PlatformStatus struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Maintenance []struct {
		ID int `json:"id"`
	} `json:"maintenances"`
	Incidents []struct {
		ID int `json:"id"`
	} `json:"incidents"`
}

// GetPlatformStatus fetches the platform's name and open incidents
func (c *Client) GetPlatformStatus(ctx context.Context) (*PlatformStatus, error) {
	var status PlatformStatus
	if err := c.doRequest(ctx, c.platformURL, statusPath, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// CheckKey reports whether the platform accepts the client's key. A refused
// key gives ok false and a nil error. Any other failure leaves validity
// unknown and is returned as the error.
func (c *Client) CheckKey(ctx context.Context) (*PlatformStatus, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, keyCheckTimeout)
	defer cancel()

	status, err := c.GetPlatformStatus(ctx)
	switch {
	case err == nil:
		return status, true, nil
	case IsKeyRejected(err):
		return nil, false, nil
	default:
		return nil, false, err
	}
}
