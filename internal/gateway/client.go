package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Kind tags what went wrong with a request.
type Kind int

const (
	// KindTransport - no response at all (connection refused, DNS, ...).
	KindTransport Kind = iota
	// KindServer - the backend answered with a non-2xx status.
	KindServer
	// KindDecode - the response body did not match the expected shape.
	KindDecode
)

// Error is the only error type this package returns. Message is always
// display-ready so callers can surface it to the UI untouched.
type Error struct {
	Kind    Kind
	Status  int // HTTP status, 0 for transport failures
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Client issues requests against the MagoImports backend and decodes the
// answers into typed values. It never panics past its boundary: every
// expected failure comes back as a *Error.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given base URL. No local timeout is set;
// the transport's own behavior governs how long a request may hang.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// GetJSON fetches path and decodes the 2xx body into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.Send(ctx, http.MethodGet, path, nil, out)
}

// Send issues method against path with an optional JSON body, decoding a
// 2xx response into out when out is non-nil.
func (c *Client) Send(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindDecode, Message: "Erro ao preparar a requisição.", Err: err}
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindTransport, Message: "Erro ao preparar a requisição.", Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Message: "Erro de rede ao contatar a API.", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return serverError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{
			Kind:    KindDecode,
			Status:  resp.StatusCode,
			Message: "Resposta inesperada da API.",
			Err:     err,
		}
	}
	return nil
}

// Delete issues a DELETE and treats only 204 No Content as success,
// which is how the backend signals a completed removal.
func (c *Client) Delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return &Error{Kind: KindTransport, Message: "Erro ao preparar a requisição.", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Message: "Erro de rede ao contatar a API.", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return serverError(resp)
	}
	return nil
}

// serverError extracts a structured {"error": "..."} message from a non-2xx
// body, falling back to a generic status line when the body has none.
func serverError(resp *http.Response) *Error {
	var payload struct {
		Error string `json:"error"`
	}
	// A malformed error body must not mask the status itself.
	_ = json.NewDecoder(resp.Body).Decode(&payload)

	message := payload.Error
	if message == "" {
		message = fmt.Sprintf("Erro HTTP: %d", resp.StatusCode)
	}
	return &Error{Kind: KindServer, Status: resp.StatusCode, Message: message}
}

// AsError unwraps err into a *Error when possible, normalizing unexpected
// error values into a transport-kind failure.
func AsError(err error) *Error {
	if gerr, ok := err.(*Error); ok {
		return gerr
	}
	return &Error{Kind: KindTransport, Message: "Erro de rede ao contatar a API.", Err: err}
}
