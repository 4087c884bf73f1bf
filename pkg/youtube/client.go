// Package youtube provides a client for the YouTube Data API v3 endpoints
// the collector needs: video search, video details, and channel details.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// detailBatchSize is the API's maximum number of IDs per list call.
const detailBatchSize = 50

// Client defines the catalog operations the collector consumes.
type Client interface {
	// SearchVideos returns the IDs of videos matching the query in the given
	// region, most relevant first, published since midnight of the current day.
	SearchVideos(ctx context.Context, query, region string, maxResults int) ([]string, error)
	// VideoDetails returns snippet and statistics for the given video IDs.
	VideoDetails(ctx context.Context, ids []string) ([]Video, error)
	// ChannelDetails returns snippet and statistics for the given channel IDs.
	ChannelDetails(ctx context.Context, ids []string) ([]Channel, error)
}

// Video is a catalog video with its metadata and interaction counts.
type Video struct {
	ID          string
	ChannelID   string
	CategoryID  int
	Title       string
	Description string
	Tags        []string
	PublishedAt time.Time
	Views       int64
	Likes       int64
	Comments    int64
}

// Channel is a catalog channel snapshot.
type Channel struct {
	ID          string
	Title       string
	Country     string
	Subscribers int64
	Videos      int64
}

// Option configures the YouTube client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	now     func() time.Time
}

// NewClient creates a YouTube Data API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://www.googleapis.com/youtube/v3",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(4), 1),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// retryableStatusCode returns true if the HTTP status code should trigger a retry.
func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

// get executes a rate-limited GET with exponential backoff retries on
// transient failures and returns the response body.
func (c *httpClient) get(ctx context.Context, reqURL string) ([]byte, error) {
	const maxAttempts = 3
	backoff := 1 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "youtube: create request")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxAttempts {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= 2
				continue
			}
			return nil, lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, eris.Wrap(readErr, "youtube: read response body")
		}

		if retryableStatusCode(resp.StatusCode) && attempt < maxAttempts {
			lastErr = eris.Errorf("youtube: status %d: %s", resp.StatusCode, string(body))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, eris.Errorf("youtube: unexpected status %d: %s", resp.StatusCode, string(body))
		}

		return body, nil
	}

	return nil, lastErr
}

func (c *httpClient) SearchVideos(ctx context.Context, query, region string, maxResults int) ([]string, error) {
	midnight := c.now().UTC().Truncate(24 * time.Hour)

	params := url.Values{}
	params.Set("part", "id")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("regionCode", region)
	params.Set("maxResults", fmt.Sprintf("%d", maxResults))
	params.Set("relevanceLanguage", "en")
	params.Set("order", "relevance")
	params.Set("publishedAfter", midnight.Format(time.RFC3339))
	params.Set("key", c.apiKey)

	body, err := c.get(ctx, c.baseURL+"/search?"+params.Encode())
	if err != nil {
		return nil, eris.Wrapf(err, "youtube: search %q in %s", query, region)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "youtube: unmarshal search response")
	}

	var ids []string
	for _, item := range resp.Items {
		if item.ID.Kind == "youtube#video" && item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	return ids, nil
}

func (c *httpClient) VideoDetails(ctx context.Context, ids []string) ([]Video, error) {
	var videos []Video

	for _, batch := range batchIDs(ids, detailBatchSize) {
		params := url.Values{}
		params.Set("part", "snippet,statistics")
		params.Set("id", strings.Join(batch, ","))
		params.Set("key", c.apiKey)

		body, err := c.get(ctx, c.baseURL+"/videos?"+params.Encode())
		if err != nil {
			return nil, eris.Wrap(err, "youtube: video details")
		}

		var resp videoListResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, eris.Wrap(err, "youtube: unmarshal video details")
		}

		for _, item := range resp.Items {
			videos = append(videos, item.toVideo())
		}
	}

	return videos, nil
}

func (c *httpClient) ChannelDetails(ctx context.Context, ids []string) ([]Channel, error) {
	var channels []Channel

	for _, batch := range batchIDs(ids, detailBatchSize) {
		params := url.Values{}
		params.Set("part", "snippet,statistics")
		params.Set("id", strings.Join(batch, ","))
		params.Set("key", c.apiKey)

		body, err := c.get(ctx, c.baseURL+"/channels?"+params.Encode())
		if err != nil {
			return nil, eris.Wrap(err, "youtube: channel details")
		}

		var resp channelListResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, eris.Wrap(err, "youtube: unmarshal channel details")
		}

		for _, item := range resp.Items {
			channels = append(channels, item.toChannel())
		}
	}

	return channels, nil
}

// batchIDs splits ids into chunks of at most size.
func batchIDs(ids []string, size int) [][]string {
	var batches [][]string
	for len(ids) > size {
		batches = append(batches, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		batches = append(batches, ids)
	}
	return batches
}
