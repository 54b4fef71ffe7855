package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// Envelope is the backend's standard response wrapper.
type Envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Content json.RawMessage `json:"content"`
}

// GetJSON issues a GET and decodes the envelope content into content
// when non-nil.
func (c *Client) GetJSON(ctx context.Context, path string, content interface{}) (*Envelope, error) {
	resp, err := c.Do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeEnvelope(resp, content)
}

// Post issues a bodyless POST (restore-style endpoints).
func (c *Client) Post(ctx context.Context, path string, content interface{}) (*Envelope, error) {
	resp, err := c.Do(ctx, http.MethodPost, path, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeEnvelope(resp, content)
}

// PostForm issues a form-encoded POST.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, content interface{}) (*Envelope, error) {
	resp, err := c.Do(ctx, http.MethodPost, path, []byte(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}
	return decodeEnvelope(resp, content)
}

// PostMultipart builds a multipart/form-data body via build and POSTs
// it. The body is buffered so the one-shot 401 retry can resend it.
func (c *Client) PostMultipart(ctx context.Context, path string, build func(*multipart.Writer) error, content interface{}) (*Envelope, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := build(writer); err != nil {
		return nil, errors.Wrap(err, "[Gateway.PostMultipart] build form")
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "[Gateway.PostMultipart] close form")
	}

	resp, err := c.Do(ctx, http.MethodPost, path, buf.Bytes(), writer.FormDataContentType())
	if err != nil {
		return nil, err
	}
	return decodeEnvelope(resp, content)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, content interface{}) (*Envelope, error) {
	resp, err := c.Do(ctx, http.MethodDelete, path, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeEnvelope(resp, content)
}

func decodeEnvelope(resp *http.Response, content interface{}) (*Envelope, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "[Gateway.decodeEnvelope] read response")
	}

	// Envelope decoding is best effort on failures: an unparseable error
	// body still surfaces its status code.
	var envelope Envelope
	_ = json.Unmarshal(body, &envelope)

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &StatusError{Code: resp.StatusCode, Message: envelope.Message}
	}
	if content == nil || len(envelope.Content) == 0 {
		return &envelope, nil
	}
	if err := json.Unmarshal(envelope.Content, content); err != nil {
		return nil, errors.Wrap(err, "[Gateway.decodeEnvelope] decode content")
	}
	return &envelope, nil
}
