package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/vbuild-dev/vbuild/constant"
	"github.com/vbuild-dev/vbuild/internal/cache"
	"github.com/vbuild-dev/vbuild/log"
	"github.com/vbuild-dev/vbuild/util"
)

// Fetcher downloads remote module source.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches over HTTP, optionally through a disk cache.
type HTTPFetcher struct {
	Client *http.Client
	// Cache is consulted before the network when set.
	Cache *cache.Store
}

// Fetch implements Fetcher.
func (h *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	key := cache.Key("remote", url)
	if h.Cache != nil {
		var cached string
		if h.Cache.Read(key, &cached) {
			log.Debugf("remote module %s served from cache", url)
			return []byte(cached), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if h.Cache != nil {
		if err := h.Cache.Write(key, string(body)); err != nil {
			log.Warnf("caching %s: %v", url, err)
		}
	}
	return body, nil
}
