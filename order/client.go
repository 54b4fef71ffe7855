// Package order covers product order history and delivery fulfillment
// state for the seller console.
package order

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hapsoo-labs/brewgate/gateway"
	"github.com/pkg/errors"
)

const (
	historyPath     = "/api/seller-priv/product-order/history/%d"
	DefaultPageSize = 12
)

// FulfillmentStatus is the delivery-side lifecycle of an order item.
type FulfillmentStatus string

const (
	FulfillmentCreated   FulfillmentStatus = "CREATED"
	FulfillmentAllocated FulfillmentStatus = "ALLOCATED"
	FulfillmentShipped   FulfillmentStatus = "SHIPPED"
	FulfillmentDelivered FulfillmentStatus = "DELIVERED"
	FulfillmentCancelled FulfillmentStatus = "CANCELLED"
)

// RefundStatus is the refund-side lifecycle of an order item.
type RefundStatus string

const (
	RefundNone      RefundStatus = "NONE"
	RefundRequested RefundStatus = "REQUESTED"
	RefundApproved  RefundStatus = "APPROVED"
	RefundRejected  RefundStatus = "REJECTED"
	RefundCompleted RefundStatus = "COMPLETED"
)

var fulfillmentText = map[FulfillmentStatus]string{
	FulfillmentCreated:   "order created",
	FulfillmentAllocated: "stock allocated",
	FulfillmentShipped:   "in transit",
	FulfillmentDelivered: "delivered",
	FulfillmentCancelled: "cancelled",
}

var refundText = map[RefundStatus]string{
	RefundNone:      "none",
	RefundRequested: "refund requested",
	RefundApproved:  "refund approved",
	RefundRejected:  "refund rejected",
	RefundCompleted: "refund completed",
}

// Text returns the display label for s, falling back to the raw code.
func (s FulfillmentStatus) Text() string {
	if text, ok := fulfillmentText[s]; ok {
		return text
	}
	return string(s)
}

func (s RefundStatus) Text() string {
	if text, ok := refundText[s]; ok {
		return text
	}
	return string(s)
}

// FulfillmentHistory is one delivery status transition.
type FulfillmentHistory struct {
	ID         int64  `json:"order_item_fulfillment_history_id"`
	ToStatus   string `json:"order_item_fulfillment_history_to_status"`
	ReasonCode string `json:"order_item_fulfillment_history_reason_code"`
	CreatedAt  string `json:"order_item_fulfillment_history_created_at"`
}

// RefundHistory is one refund status transition.
type RefundHistory struct {
	ID        int64  `json:"order_item_refund_history_id"`
	ToStatus  string `json:"order_item_refund_to_status"`
	CreatedAt string `json:"order_item_refund_created_at"`
}

type StatusHistory struct {
	Fulfillment []FulfillmentHistory `json:"fulfillment_history"`
	Refund      []RefundHistory      `json:"refund_history"`
}

// Item is one ordered product line with payer and delivery detail.
type Item struct {
	OrderID            int64             `json:"order_id"`
	OrderItemID        int64             `json:"order_item_id"`
	ProductID          int64             `json:"product_id"`
	ProductName        string            `json:"product_name"`
	ProviderID         int64             `json:"provider_id"`
	ProviderNickname   string            `json:"provider_nickname"`
	ProviderRole       string            `json:"provider_role"`
	ProductImageKey    *string           `json:"product_image_key"`
	Quantity           int               `json:"order_item_quantity"`
	Amount             int64             `json:"order_item_amount"`
	FulfillmentStatus  FulfillmentStatus `json:"order_item_fulfillment_status"`
	RefundStatus       RefundStatus      `json:"order_item_refund_status"`
	CarrierCode        *string           `json:"order_item_carrier_code"`
	TrackingNo         *string           `json:"order_item_tracking_no"`
	ShippedAt          *string           `json:"order_item_shipped_at"`
	DeliveredAt        *string           `json:"order_item_delivered_at"`
	CreatedAt          string            `json:"order_item_created_at"`
	UpdatedAt          string            `json:"order_item_updated_at"`
	PayerName          string            `json:"payer_name"`
	PayerPhone         string            `json:"payer_phone"`
	PayerAddress       string            `json:"payer_address"`
	PayerAddressDetail string            `json:"payer_address_detail"`
	StatusHistory      StatusHistory     `json:"status_history"`
}

type Sort struct {
	Empty    bool `json:"empty"`
	Unsorted bool `json:"unsorted"`
	Sorted   bool `json:"sorted"`
}

type Pageable struct {
	PageNumber int  `json:"page_number"`
	PageSize   int  `json:"page_size"`
	Offset     int  `json:"offset"`
	Paged      bool `json:"paged"`
	Unpaged    bool `json:"unpaged"`
	Sort       Sort `json:"sort"`
}

// Page is one page of order history.
type Page struct {
	Content          []Item   `json:"content"`
	Pageable         Pageable `json:"pageable"`
	Last             bool     `json:"last"`
	TotalPages       int      `json:"total_pages"`
	TotalElements    int      `json:"total_elements"`
	First            bool     `json:"first"`
	Size             int      `json:"size"`
	Number           int      `json:"number"`
	NumberOfElements int      `json:"number_of_elements"`
	Empty            bool     `json:"empty"`
}

type Client struct {
	gateway *gateway.Client
}

func New(gw *gateway.Client) *Client {
	return &Client{gateway: gw}
}

// History returns one page of order history starting at offset. A 404
// means the seller has no orders yet and maps to an empty page, not an
// error.
func (c *Client) History(ctx context.Context, offset int) (*Page, error) {
	var page Page
	if _, err := c.gateway.GetJSON(ctx, fmt.Sprintf(historyPath, offset), &page); err != nil {
		if gateway.IsStatus(err, http.StatusNotFound) {
			return emptyPage(), nil
		}
		return nil, errors.Wrap(err, "[Order.History]")
	}
	return &page, nil
}

// HistoryByPage is History with page/size arithmetic.
func (c *Client) HistoryByPage(ctx context.Context, page, pageSize int) (*Page, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return c.History(ctx, page*pageSize)
}

func emptyPage() *Page {
	return &Page{
		Content: []Item{},
		Pageable: Pageable{
			PageSize: DefaultPageSize,
			Paged:    true,
			Sort:     Sort{Empty: true, Unsorted: true},
		},
		Last:  true,
		First: true,
		Size:  DefaultPageSize,
		Empty: true,
	}
}
