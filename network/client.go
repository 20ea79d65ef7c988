// Package network provides the HTTP client used to talk to package CDNs.
package network

import (
	"net/http"
	"time"

	"github.com/spf13/viper"
	"github.com/vbuild-dev/vbuild/constant"
	"github.com/vbuild-dev/vbuild/key"
)

// Client is the HTTP client shared across the application.
var Client = New(time.Minute, false)

// New builds a client with the given per-request timeout. With fingerprint
// set, TLS connections present a browser ClientHello.
func New(timeout time.Duration, fingerprint bool) *http.Client {
	var rt http.RoundTripper = newTransport()
	if fingerprint {
		rt = &fingerprintTransport{}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{next: rt},
	}
}

// Configure rebuilds Client from the network.* configuration keys.
func Configure(timeout time.Duration) {
	Client = New(timeout, viper.GetBool(key.NetworkFingerprint))
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 32
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	return t
}

type userAgentTransport struct {
	next http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", constant.UserAgent)
	}
	return t.next.RoundTrip(req)
}
