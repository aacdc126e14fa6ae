package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/ilya-burinskiy/repairguides/internal/app/logger"
)

var ErrFetchGuides = errors.New("failed to fetch repair guides")

// GuideFetcher searches the repair guide catalog
type GuideFetcher interface {
	Fetch(ctx context.Context, device string) (json.RawMessage, error)
}

// HTTPClient sends upstream requests, *http.Client satisfies it
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type guideFetcher struct {
	client  HTTPClient
	baseURL string
}

// NewGuideFetcher returns fetcher querying {baseURL}/guides?query={device}
func NewGuideFetcher(client HTTPClient, baseURL string) GuideFetcher {
	return guideFetcher{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Fetch returns catalog response body as is
func (f guideFetcher) Fetch(ctx context.Context, device string) (json.RawMessage, error) {
	searchURL := f.baseURL + "/guides?" + url.Values{"query": {device}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %s", ErrFetchGuides, err.Error())
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchGuides, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Log.Info("failed to close guides response body", zap.Error(err))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: upstream responded with %s", ErrFetchGuides, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrFetchGuides, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: response body is not valid JSON", ErrFetchGuides)
	}

	return json.RawMessage(body), nil
}
