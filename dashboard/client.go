// Package dashboard covers the seller console landing data: today's
// totals, the experience schedule, and recent activity.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/hapsoo-labs/brewgate/gateway"
	"github.com/pkg/errors"
)

const (
	dashboardPath        = "/api/seller-priv/dashboard"
	reservationsDatePath = "/api/brewery-priv/joy-order/history-date/0/%s"
)

// Stats are today's aggregate counters.
type Stats struct {
	TodayRevenue             int64 `json:"todayRevenue"`
	TodayOrderCount          int   `json:"todayOrderCount"`
	TodayJoyReservationCount int   `json:"todayJoyReservationCount"`
	PendingOrderCount        int   `json:"pendingOrderCount"`
	PendingJoyCount          int   `json:"pendingJoyCount"`
}

// Schedule is one experience reservation on today's timetable.
type Schedule struct {
	JoyOrderID       int64  `json:"joyOrderId"`
	JoyName          string `json:"joyName"`
	ReservationTime  string `json:"reservationTime"`
	ParticipantCount int    `json:"participantCount"`
	PayerName        string `json:"payerName"`
	PayerPhone       string `json:"payerPhone"`
	Status           string `json:"status"`
}

// RecentOrder is a recent product order summary row.
type RecentOrder struct {
	OrderID       int64  `json:"orderId"`
	PayerName     string `json:"payerName"`
	TotalAmount   int64  `json:"totalAmount"`
	PaymentStatus string `json:"paymentStatus"`
	CreatedAt     string `json:"createdAt"`
	ItemCount     int    `json:"itemCount"`
}

// RecentReservation is a recent experience reservation summary row.
type RecentReservation struct {
	JoyOrderID       int64  `json:"joyOrderId"`
	JoyName          string `json:"joyName"`
	PayerName        string `json:"payerName"`
	ParticipantCount int    `json:"participantCount"`
	TotalAmount      int64  `json:"totalAmount"`
	ReservationTime  string `json:"reservationTime"`
	PaymentStatus    string `json:"paymentStatus"`
	CreatedAt        string `json:"createdAt"`
}

// Data is the full dashboard payload.
type Data struct {
	Stats                 Stats               `json:"stats"`
	TodaySchedule         []Schedule          `json:"todaySchedule"`
	RecentOrders          []RecentOrder       `json:"recentOrders"`
	RecentJoyReservations []RecentReservation `json:"recentJoyReservations"`
}

// Reservation is one experience order row from the per-date history.
type Reservation struct {
	JoyOrderID      int64  `json:"joy_order_id"`
	UserID          int64  `json:"user_id"`
	JoyID           int64  `json:"joy_id"`
	JoyName         string `json:"joy_name"`
	Count           int    `json:"joy_order_count"`
	TotalPrice      int64  `json:"joy_total_price"`
	PayerName       string `json:"joy_order_payer_name"`
	PayerPhone      string `json:"joy_order_payer_phone"`
	CreatedAt       string `json:"joy_order_created_at"`
	ReservationTime string `json:"joy_order_reservation"`
	PaymentStatus   string `json:"joy_payment_status"`
}

// ReservationPage is the per-date reservation history payload.
type ReservationPage struct {
	Content       []Reservation `json:"content"`
	TotalPages    int           `json:"totalPages"`
	TotalElements int           `json:"totalElements"`
}

type Client struct {
	gateway *gateway.Client
}

func New(gw *gateway.Client) *Client {
	return &Client{gateway: gw}
}

// Fetch loads the dashboard.
func (c *Client) Fetch(ctx context.Context) (*Data, error) {
	var data Data
	if _, err := c.gateway.GetJSON(ctx, dashboardPath, &data); err != nil {
		return nil, errors.Wrap(err, "[Dashboard.Fetch]")
	}
	return &data, nil
}

// ReservationsOn lists the experience reservations falling on the given
// date (local time, bucketed by day).
func (c *Client) ReservationsOn(ctx context.Context, date time.Time) (*ReservationPage, error) {
	var page ReservationPage
	path := fmt.Sprintf(reservationsDatePath, date.Format("2006-01-02"))
	if _, err := c.gateway.GetJSON(ctx, path, &page); err != nil {
		return nil, errors.Wrap(err, "[Dashboard.ReservationsOn]")
	}
	return &page, nil
}
