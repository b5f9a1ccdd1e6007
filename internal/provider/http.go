package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// postJSON sends one JSON POST and decodes a 200 response into out. Non-200
// responses become status-classified *Error values carrying the body text.
func postJSON(ctx context.Context, hc *http.Client, name Name, url string, headers map[string]string, payload, out any) error {
	buf, err := json.Marshal(payload)
	if err != nil {
		return &Error{Kind: KindPermanent, Provider: name, Message: "encode request", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return &Error{Kind: KindPermanent, Provider: name, Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return &Error{Kind: KindPermanent, Provider: name, Message: "request cancelled", Err: ctx.Err()}
		}
		return &Error{Kind: KindTransient, Provider: name, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return statusError(name, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindPermanent, Provider: name, Message: "decode response", Err: err}
	}
	return nil
}
