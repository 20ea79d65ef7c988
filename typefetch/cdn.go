package typefetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vbuild-dev/vbuild/network"
	"github.com/vbuild-dev/vbuild/specifier"
	"github.com/vbuild-dev/vbuild/util"
)

// Probe is what the CDN reports about a package.
type Probe struct {
	Version string
	// TypesURL is empty when the package ships no declarations.
	TypesURL string
}

// CDN is the network collaborator of the fetcher.
type CDN interface {
	Probe(ctx context.Context, pkg specifier.Package, version string) (*Probe, error)
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPCDN talks to an esm.sh compatible CDN.
type HTTPCDN struct {
	BaseURL string
	// Client defaults to network.Client.
	Client *http.Client
}

// NewHTTPCDN creates a CDN client for baseURL.
func NewHTTPCDN(baseURL string) *HTTPCDN {
	return &HTTPCDN{BaseURL: strings.TrimRight(baseURL, "/")}
}

func (h *HTTPCDN) client() *http.Client {
	if h.Client != nil {
		return h.Client
	}
	return network.Client
}

// PackageURL is the CDN address of pkg at version.
func (h *HTTPCDN) PackageURL(pkg specifier.Package, version string) string {
	u := strings.TrimRight(h.BaseURL, "/") + "/" + pkg.Name
	if version != "" && version != LatestVersion {
		u += "@" + version
	}
	if pkg.Subpath != "" {
		u += "/" + pkg.Subpath
	}
	return u
}

// Probe issues a HEAD request and reads the X-TypeScript-Types header. A
// missing package is reported as a probe without types.
func (h *HTTPCDN) Probe(ctx context.Context, pkg specifier.Package, version string) (*Probe, error) {
	target := h.PackageURL(pkg, version)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := h.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer util.Ignore(resp.Body.Close)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &Probe{}, nil
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: %s %s", ErrFetchFailed, target, resp.Status)
	}

	probe := &Probe{}
	if header := resp.Header.Get("X-TypeScript-Types"); header != "" {
		abs, err := resp.Request.URL.Parse(header)
		if err != nil {
			return nil, fmt.Errorf("%w: types header %q: %v", ErrParseFailed, header, err)
		}
		probe.TypesURL = abs.String()
	}

	candidates := []string{resp.Header.Get("X-Esm-Id")}
	if resp.Request != nil && resp.Request.URL != nil {
		candidates = append(candidates, resp.Request.URL.Path)
	}
	if probe.TypesURL != "" {
		candidates = append(candidates, urlPath(probe.TypesURL))
	}

	probe.Version = versionOf(pkg.Name, candidates...)
	if probe.Version == "" {
		probe.Version = version
	}
	return probe, nil
}

// versionOf returns the path segment following "name@" in the first
// candidate that has one. The name must start a segment, so "react"
// does not match inside "preact@10".
func versionOf(name string, candidates ...string) string {
	needle := name + "@"
	for _, c := range candidates {
		for from := 0; ; {
			i := strings.Index(c[from:], needle)
			if i < 0 {
				break
			}
			i += from
			from = i + 1
			if i > 0 && c[i-1] != '/' {
				continue
			}

			rest := c[i+len(needle):]
			if j := strings.IndexByte(rest, '/'); j >= 0 {
				rest = rest[:j]
			}
			if rest != "" {
				return rest
			}
		}
	}
	return ""
}

func urlPath(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	return parsed.Path
}

// Fetch downloads a declaration file.
func (h *HTTPCDN) Fetch(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := h.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s %s", ErrFetchFailed, target, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return string(body), nil
}

// ResolveVersion asks the CDN which version "latest" currently is.
func (h *HTTPCDN) ResolveVersion(ctx context.Context, name string) (string, error) {
	probe, err := h.Probe(ctx, specifier.Package{Name: name}, "")
	if err != nil {
		return "", err
	}
	if probe.Version == "" {
		return "", fmt.Errorf("%w: no version reported for %s", ErrParseFailed, name)
	}
	return probe.Version, nil
}

func relativeTo(base *url.URL, target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	dir := base.Path[:strings.LastIndexByte(base.Path, '/')+1]
	if rel, ok := strings.CutPrefix(u.Path, dir); ok {
		return rel
	}
	return strings.TrimPrefix(u.Path, "/")
}
