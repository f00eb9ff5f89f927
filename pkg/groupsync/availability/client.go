package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/groupsync/groupsync/pkg/groupsync/apperr"
	"github.com/groupsync/groupsync/pkg/groupsync/schedule"
)

// Client talks to the external availability service that tracks each
// user's declared free time. Every call is bounded by the client timeout;
// a failure is terminal for the request that triggered it.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the availability service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type freeSchedulesResponse struct {
	Data *struct {
		Schedules []schedule.Window `json:"schedules"`
	} `json:"data"`
}

// FreeSchedules fetches the declared free windows of the given users. The
// caller's Authorization header is forwarded so the upstream service can
// authorize the lookup. A non-2xx status or a payload without "data" is
// reported as a gateway error, distinct from a scheduling conflict.
func (c *Client) FreeSchedules(ctx context.Context, userIDs []uint, authHeader string) ([]schedule.Window, error) {
	query := url.Values{}
	for _, id := range userIDs {
		query.Add("users", strconv.FormatUint(uint64(id), 10))
	}

	reqURL := fmt.Sprintf("%s/users/freeSchedules/?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperr.BadGateway("Failed to build availability request")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.BadGateway("Availability service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.BadGateway(fmt.Sprintf("Availability service returned status %d", resp.StatusCode))
	}

	var body freeSchedulesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperr.BadGateway("Availability service returned an unparseable response")
	}
	if body.Data == nil {
		return nil, apperr.BadGateway("Availability service response is missing data")
	}

	return body.Data.Schedules, nil
}
