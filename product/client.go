// Package product covers the seller's product catalog: registration,
// updates with image reordering, soft delete, and restore.
package product

import (
	"context"
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/hapsoo-labs/brewgate/gateway"
	"github.com/pkg/errors"
)

const (
	registerPath = "/api/seller-priv/product-add"
	updatePath   = "/api/seller-priv/product-update"
	deletePath   = "/api/seller-priv/product/%d"
	restorePath  = "/api/seller-priv/product-restore/%d"
)

// Form carries the product registration/update fields. Numeric fields
// stay strings: the console forwards the operator's raw input and lets
// the backend validate it.
type Form struct {
	Name         string
	Alcohol      string
	Volume       string
	OriginPrice  string
	Inventory    string
	IsOnlineSell bool
	Description  string
}

// ImageOrder re-sequences an existing product image.
type ImageOrder struct {
	ImageID int64
	Seq     int
}

type Client struct {
	gateway *gateway.Client
}

func New(gw *gateway.Client) *Client {
	return &Client{gateway: gw}
}

// Register creates a product with its ordered images. Image sequence
// numbers start at 1 in upload order.
func (c *Client) Register(ctx context.Context, form Form, images []gateway.FormFile) (string, error) {
	envelope, err := c.gateway.PostMultipart(ctx, registerPath, func(w *multipart.Writer) error {
		if err := writeForm(w, form, false); err != nil {
			return err
		}
		for i, image := range images {
			if err := gateway.WriteFile(w, fmt.Sprintf("images[%d].image", i), image); err != nil {
				return err
			}
			if err := w.WriteField(fmt.Sprintf("images[%d].seq", i), strconv.Itoa(i+1)); err != nil {
				return err
			}
		}
		return nil
	}, nil)
	if err != nil {
		return "", errors.Wrap(err, "[Product.Register]")
	}
	return envelope.Message, nil
}

// Update edits a product: changed fields, added images, removed image
// IDs, and re-sequenced existing images, all in one submission.
func (c *Client) Update(ctx context.Context, productID int64, form Form, addImages []gateway.FormFile, removeImageIDs []int64, modifyImages []ImageOrder) (string, error) {
	envelope, err := c.gateway.PostMultipart(ctx, updatePath, func(w *multipart.Writer) error {
		if err := w.WriteField("id", strconv.FormatInt(productID, 10)); err != nil {
			return err
		}
		if err := writeForm(w, form, true); err != nil {
			return err
		}
		for i, image := range addImages {
			if err := gateway.WriteFile(w, fmt.Sprintf("add_images[%d].image", i), image); err != nil {
				return err
			}
			if err := w.WriteField(fmt.Sprintf("add_images[%d].seq", i), strconv.Itoa(i+1)); err != nil {
				return err
			}
		}
		for i, id := range removeImageIDs {
			if err := w.WriteField(fmt.Sprintf("remove_images[%d]", i), strconv.FormatInt(id, 10)); err != nil {
				return err
			}
		}
		for i, order := range modifyImages {
			if err := w.WriteField(fmt.Sprintf("modify_images[%d].image_id", i), strconv.FormatInt(order.ImageID, 10)); err != nil {
				return err
			}
			if err := w.WriteField(fmt.Sprintf("modify_images[%d].seq", i), strconv.Itoa(order.Seq)); err != nil {
				return err
			}
		}
		return nil
	}, nil)
	if err != nil {
		return "", errors.Wrap(err, "[Product.Update]")
	}
	return envelope.Message, nil
}

// Delete soft-deletes a product.
func (c *Client) Delete(ctx context.Context, productID int64) (string, error) {
	envelope, err := c.gateway.Delete(ctx, fmt.Sprintf(deletePath, productID), nil)
	if err != nil {
		return "", errors.Wrap(err, "[Product.Delete]")
	}
	return envelope.Message, nil
}

// Restore undoes a soft delete.
func (c *Client) Restore(ctx context.Context, productID int64) (string, error) {
	envelope, err := c.gateway.Post(ctx, fmt.Sprintf(restorePath, productID), nil)
	if err != nil {
		return "", errors.Wrap(err, "[Product.Restore]")
	}
	return envelope.Message, nil
}

// writeForm writes the shared product fields. Updates omit empty
// fields (partial update); registration sends them all.
func writeForm(w *multipart.Writer, form Form, partial bool) error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", form.Name},
		{"alcohol", form.Alcohol},
		{"volume", form.Volume},
		{"origin_price", form.OriginPrice},
		{"inventory", form.Inventory},
		{"description", form.Description},
	}
	for _, field := range fields {
		if partial && field.value == "" {
			continue
		}
		if field.name == "description" && field.value == "" {
			continue
		}
		if err := w.WriteField(field.name, field.value); err != nil {
			return err
		}
	}
	return w.WriteField("is_online_sell", strconv.FormatBool(form.IsOnlineSell))
}
