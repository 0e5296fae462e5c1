package metrics

import (
	"net/http"
	"strconv"
	"time"
)

// StatusError is the status label used when a request never got a response.
const StatusError = "error"

// Transport wraps an http.RoundTripper to record tracking server requests.
type Transport struct {
	Next http.RoundTripper
}

// NewTransport creates a Transport around next, defaulting to http.DefaultTransport.
func NewTransport(next http.RoundTripper) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Transport{Next: next}
}

// RoundTrip performs the request and records its status and duration.
func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.Next.RoundTrip(r)
	TrackingRequestDuration.Observe(float64(time.Since(start).Microseconds()) / 1000)

	status := StatusError
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	TrackingRequests.WithLabelValues(r.URL.Path, status).Inc()
	return resp, err
}
