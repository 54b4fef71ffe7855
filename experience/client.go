// Package experience covers the brewery's experience programs (tasting
// tours, brewing classes): registration, updates, soft delete, restore.
package experience

import (
	"context"
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/hapsoo-labs/brewgate/gateway"
	"github.com/pkg/errors"
)

const (
	registerPath = "/api/brewery-priv/joy-add"
	updatePath   = "/api/brewery-priv/joy-update"
	deletePath   = "/api/brewery-priv/joy/%d"
	restorePath  = "/api/brewery-priv/joy-restore/%d"
)

// Form carries an experience program's listing fields. TimeUnit is the
// slot length in minutes; MaxCount the participant cap per slot.
type Form struct {
	Name        string
	Place       string
	Detail      string
	OriginPrice int
	TimeUnit    int
	MaxCount    int
}

type Client struct {
	gateway *gateway.Client
}

func New(gw *gateway.Client) *Client {
	return &Client{gateway: gw}
}

// Register creates an experience program with its cover image.
func (c *Client) Register(ctx context.Context, form Form, image gateway.FormFile) (string, error) {
	envelope, err := c.gateway.PostMultipart(ctx, registerPath, func(w *multipart.Writer) error {
		if err := writeForm(w, form); err != nil {
			return err
		}
		return gateway.WriteFile(w, "image", image)
	}, nil)
	if err != nil {
		return "", errors.Wrap(err, "[Experience.Register]")
	}
	return envelope.Message, nil
}

// Update edits an experience program; a nil image keeps the current one.
func (c *Client) Update(ctx context.Context, experienceID int64, form Form, image *gateway.FormFile) (string, error) {
	envelope, err := c.gateway.PostMultipart(ctx, updatePath, func(w *multipart.Writer) error {
		if err := w.WriteField("joy_id", strconv.FormatInt(experienceID, 10)); err != nil {
			return err
		}
		if err := writeForm(w, form); err != nil {
			return err
		}
		if image != nil {
			return gateway.WriteFile(w, "image", *image)
		}
		return nil
	}, nil)
	if err != nil {
		return "", errors.Wrap(err, "[Experience.Update]")
	}
	return envelope.Message, nil
}

// Delete soft-deletes an experience program.
func (c *Client) Delete(ctx context.Context, experienceID int64) (string, error) {
	envelope, err := c.gateway.Delete(ctx, fmt.Sprintf(deletePath, experienceID), nil)
	if err != nil {
		return "", errors.Wrap(err, "[Experience.Delete]")
	}
	return envelope.Message, nil
}

// Restore undoes a soft delete.
func (c *Client) Restore(ctx context.Context, experienceID int64) (string, error) {
	envelope, err := c.gateway.Post(ctx, fmt.Sprintf(restorePath, experienceID), nil)
	if err != nil {
		return "", errors.Wrap(err, "[Experience.Restore]")
	}
	return envelope.Message, nil
}

func writeForm(w *multipart.Writer, form Form) error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", form.Name},
		{"place", form.Place},
		{"detail", form.Detail},
		{"origin_price", strconv.Itoa(form.OriginPrice)},
		{"time_unit", strconv.Itoa(form.TimeUnit)},
		{"max_count", strconv.Itoa(form.MaxCount)},
	}
	for _, field := range fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return err
		}
	}
	return nil
}
