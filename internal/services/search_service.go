package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"tripcraft/pkg/utils"
)

const serperEndpoint = "https://google.serper.dev/search"

// Snippet is one grounding excerpt from the search provider.
type Snippet struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// --------- In-memory cache per query ---------

type searchCacheEntry struct {
	Snippets  []Snippet
	ExpiresAt time.Time
}

type SearchCache interface {
	Get(query string) ([]Snippet, bool)
	Set(query string, snippets []Snippet, ttl time.Duration)
}

type inMemorySearchCache struct {
	mu    sync.RWMutex
	store map[string]searchCacheEntry
}

func NewInMemorySearchCache() SearchCache {
	return &inMemorySearchCache{store: make(map[string]searchCacheEntry)}
}

func (c *inMemorySearchCache) Get(query string) ([]Snippet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.store[query]
	if !ok || time.Now().After(it.ExpiresAt) {
		return nil, false
	}
	return it.Snippets, true
}

func (c *inMemorySearchCache) Set(query string, snippets []Snippet, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[query] = searchCacheEntry{Snippets: snippets, ExpiresAt: time.Now().Add(ttl)}
}

// -------------- Serper.dev client ---------------

type SearchServiceInterface interface {
	// Search returns grounding snippets for query. apiKeyOverride, when
	// non-empty, replaces the configured key for this call only.
	Search(ctx context.Context, query string, apiKeyOverride string) ([]Snippet, error)
}

type SerperSearchClient struct {
	HTTP        *http.Client
	APIKey      string
	Cache       SearchCache
	DefaultTTL  time.Duration
	Endpoint    string
	ResultLimit int
	Attempts    int
}

func NewSerperSearchClient(apiKey string, cache SearchCache) *SerperSearchClient {
	return &SerperSearchClient{
		HTTP:        &http.Client{Timeout: 10 * time.Second},
		APIKey:      apiKey,
		Cache:       cache,
		DefaultTTL:  time.Hour,
		Endpoint:    serperEndpoint,
		ResultLimit: 3,
		Attempts:    2,
	}
}

func (c *SerperSearchClient) Search(ctx context.Context, query string, apiKeyOverride string) ([]Snippet, error) {
	if cached, ok := c.Cache.Get(query); ok {
		return cached, nil
	}

	apiKey := c.APIKey
	if apiKeyOverride != "" {
		apiKey = apiKeyOverride
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing search API key", utils.ErrSearchUnavailable)
	}

	var lastErr error
	for attempt := 0; attempt < c.Attempts; attempt++ {
		snippets, err := c.doSearch(ctx, query, apiKey)
		if err == nil {
			c.Cache.Set(query, snippets, c.DefaultTTL)
			return snippets, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("%w: %v", utils.ErrSearchUnavailable, lastErr)
}

func (c *SerperSearchClient) doSearch(ctx context.Context, query, apiKey string) ([]Snippet, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"q":   query,
		"num": c.ResultLimit,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("serper bad status: %s", resp.Status)
	}

	var body struct {
		Organic []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			Link    string `json:"link"`
		} `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("serper decode: %w", err)
	}

	snippets := make([]Snippet, 0, len(body.Organic))
	for _, item := range body.Organic {
		snippets = append(snippets, Snippet{
			Title:   item.Title,
			Snippet: item.Snippet,
			Link:    item.Link,
		})
		if len(snippets) == c.ResultLimit {
			break
		}
	}
	return snippets, nil
}
