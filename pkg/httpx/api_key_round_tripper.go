package httpx

import (
	"fmt"
	"net/http"
)

// APIKeyRoundTripper injects a static API key header into every outgoing
// request. The key is resolved per request so a rotated credential is picked
// up without rebuilding the client.
type APIKeyRoundTripper struct {
	next       http.RoundTripper
	headerName string
	key        func() string
}

func NewAPIKeyRoundTripper(
	next http.RoundTripper,
	headerName string,
	key func() string,
) APIKeyRoundTripper {
	return APIKeyRoundTripper{
		next:       next,
		headerName: headerName,
		key:        key,
	}
}

func (rt APIKeyRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// Transports must not modify the caller's request.
	req = req.Clone(req.Context())
	req.Header.Set(rt.headerName, rt.key())

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	return resp, nil
}
