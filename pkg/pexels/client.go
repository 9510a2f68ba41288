package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/NomadCrew/nomad-crew-planner/logger"
)

const pexelsAPIBaseURL = "https://api.pexels.com/v1"

// ClientInterface defines the interface for Pexels client operations
type ClientInterface interface {
	SearchDestinationImage(ctx context.Context, query string) (string, error)
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type SearchResponse struct {
	Photos []Photo `json:"photos"`
}

type Photo struct {
	ID     int    `json:"id"`
	Source Source `json:"src"`
}

type Source struct {
	Landscape string `json:"landscape"`
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    pexelsAPIBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL points the client at another host. Used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// SearchDestinationImage returns the landscape URL of the first photo
// matching query, or "" when nothing matched.
func (c *Client) SearchDestinationImage(ctx context.Context, query string) (string, error) {
	log := logger.GetLogger()

	params := url.Values{}
	params.Add("query", query)
	params.Add("per_page", "1")
	params.Add("orientation", "landscape")
	finalURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnw("Pexels API returned non-OK status", "statusCode", resp.StatusCode, "query", query)
		return "", fmt.Errorf("pexels API returned status: %d", resp.StatusCode)
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(searchResp.Photos) == 0 {
		log.Debugw("No photos found in Pexels response", "query", query)
		return "", nil
	}
	return searchResp.Photos[0].Source.Landscape, nil
}
