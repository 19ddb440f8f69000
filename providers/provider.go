// Package providers enthält die HTTP-Clients für externe Dienste (Backend, Zip-Vorschau).
package providers

import (
	"net/http"
	"time"
)

// UserAgent wird jeder ausgehenden Anfrage mitgegeben.
const UserAgent = "docsync/1.0"

// Transport setzt User-Agent und, falls vorhanden, das Bearer-Token auf jede Anfrage.
type Transport struct {
	Base  http.RoundTripper
	Token string
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", UserAgent)
	if t.Token != "" {
		req.Header.Set("Authorization", "Bearer "+t.Token)
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// NewHTTPClient liefert einen Client mit Timeout und Transport.
func NewHTTPClient(token string, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &Transport{Base: http.DefaultTransport, Token: token},
	}
}
