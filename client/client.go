// Package client implements the lookup and regenerate orchestration for the
// mediscan API. A Client issues the analysis requests; a Session remembers
// the names resolved by the last successful lookup so summaries can be
// regenerated without re-submitting the image or name.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/mediscan/mediscan-api/api"
	"github.com/mediscan/mediscan-api/logging"
)

// ErrSuperseded is returned when a lookup response arrives after a newer
// lookup has already been issued. The caller must discard the result; the
// newer request carries the user's current intent.
var ErrSuperseded = errors.New("lookup superseded by a newer request")

// Client talks to the mediscan analysis endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// seq tags every lookup so stale responses can be discarded.
	seq atomic.Uint64
}

// New creates a client for the API at baseURL. A nil httpClient falls back
// to http.DefaultClient; timeouts are the caller's business, via either the
// client or the request context.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// AnalyzeName looks up one or more comma-separated medicine names. On an ok
// response the session's remembered names are overwritten with the returned
// drug names, in order.
func (c *Client) AnalyzeName(ctx context.Context, session *Session, name string) (*api.ResponsePayload, error) {
	token := c.seq.Add(1)

	var payload api.ResponsePayload
	if err := c.post(ctx, "/analyze-name", api.AnalyzeNameRequest{Name: name}, &payload); err != nil {
		return nil, err
	}

	return c.resolveLookup(session, token, &payload)
}

// AnalyzeImage uploads a base64 data URL of a medicine photo for OCR-based
// identification. Session handling matches AnalyzeName.
func (c *Client) AnalyzeImage(ctx context.Context, session *Session, dataURL string) (*api.ResponsePayload, error) {
	token := c.seq.Add(1)

	var payload api.ResponsePayload
	if err := c.post(ctx, "/analyze-image", api.AnalyzeImageRequest{Image: dataURL}, &payload); err != nil {
		return nil, err
	}

	return c.resolveLookup(session, token, &payload)
}

// resolveLookup enforces latest-intent-wins: a response whose token is no
// longer the most recently issued is discarded without touching the session.
func (c *Client) resolveLookup(session *Session, token uint64, payload *api.ResponsePayload) (*api.ResponsePayload, error) {
	if c.seq.Load() != token {
		return nil, ErrSuperseded
	}
	if payload.OK {
		session.SetLastSearchedNames(payload.DrugNames())
	}
	return payload, nil
}

// RegenerateAll re-requests a summary for every remembered name, strictly in
// sequence. Items that fail, either in transport or with an ok:false body,
// are logged and skipped; the batch never aborts early. The accumulated
// payload is returned after all names have been processed, or nil when the
// session has no remembered names.
//
// The requests are deliberately serialized: the summary backend is rate
// limited and does not tolerate a parallel fan-out.
func (c *Client) RegenerateAll(ctx context.Context, session *Session) (*api.ResponsePayload, error) {
	names := session.LastSearchedNames()
	if len(names) == 0 {
		return nil, nil
	}

	acc := &api.ResponsePayload{OK: true}
	for _, name := range names {
		var item api.ResponsePayload
		if err := c.post(ctx, "/regenerate", api.RegenerateRequest{Name: name}, &item); err != nil {
			logging.Warn("Regenerate request failed", "session_id", session.ID, "name", name, "error", err)
			continue
		}
		if !item.OK {
			logging.Warn("Regenerate rejected", "session_id", session.ID, "name", name, "error", item.Error, "message", item.Message)
			continue
		}

		acc.Summaries = append(acc.Summaries, item.Summaries...)
		acc.Retrieved = append(acc.Retrieved, item.Retrieved...)
	}

	return acc, nil
}

// post issues one JSON POST and decodes the response body into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
