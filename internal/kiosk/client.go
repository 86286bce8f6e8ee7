package kiosk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/smileops/dentaldesk/internal/domain/entities"
)

// Mode selects which identifying input a search sends.
type Mode string

const (
	ModeLastName Mode = "q"
	ModeDOB      Mode = "dob"
	ModePhone    Mode = "phone"
)

// Structured error codes the search endpoint returns in place of results.
const (
	CodeDOBInvalid    = "dob_invalid"
	CodePhoneShort    = "phone_short"
	CodeDBUnavailable = "db_unavailable"
)

// EndpointError is a structured, recoverable error code reported by the
// search endpoint. Anything else is a transport failure.
type EndpointError struct {
	Code string
}

func (e *EndpointError) Error() string {
	return "kiosk endpoint error: " + e.Code
}

// SearchClient issues one lookup against the kiosk search endpoint.
type SearchClient interface {
	Search(ctx context.Context, mode Mode, value string) ([]*entities.AppointmentMatch, error)
}

// PhotoLoader fetches one patient photo by identifier.
type PhotoLoader interface {
	LoadPhoto(ctx context.Context, patNum int64) ([]byte, error)
}

// Client talks HTTP to the kiosk search and photo endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a kiosk HTTP client against the given base URL
// (e.g. "http://localhost:8080").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type searchResponse struct {
	Results []*entities.AppointmentMatch `json:"results"`
	Error   string                       `json:"error"`
}

// Search issues GET /kiosk/search with exactly one of q, dob, or phone.
// Structured endpoint errors come back as *EndpointError; network and
// decode failures come back as plain errors.
func (c *Client) Search(ctx context.Context, mode Mode, value string) ([]*entities.AppointmentMatch, error) {
	params := url.Values{}
	params.Set(string(mode), value)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/kiosk/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	if body.Error != "" {
		return nil, &EndpointError{Code: body.Error}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search endpoint returned status %d", resp.StatusCode)
	}

	return body.Results, nil
}

// LoadPhoto issues GET /kiosk/photo/{patNum} and returns the raw image
// bytes. Any non-200 response is a load failure.
func (c *Client) LoadPhoto(ctx context.Context, patNum int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/kiosk/photo/%d", c.baseURL, patNum), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create photo request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("photo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("photo endpoint returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
