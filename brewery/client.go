// Package brewery covers the brewery profile endpoints: the current
// seller's account/brewery detail and profile updates.
package brewery

import (
	"context"
	"mime/multipart"
	"strconv"

	"github.com/hapsoo-labs/brewgate/gateway"
	"github.com/pkg/errors"
)

const (
	mePath     = "/api/user/my"
	updatePath = "/api/brewery-priv/update"
)

// Detail is the backend's brewery record.
type Detail struct {
	BreweryID                  int64  `json:"brewery_id"`
	RegionTypeID               int64  `json:"region_type_id,omitempty"`
	RegionTypeName             string `json:"region_type_name,omitempty"`
	Name                       string `json:"brewery_name"`
	Address                    string `json:"brewery_address"`
	AddressDetail              string `json:"brewery_address_detail"`
	RegisteredAt               string `json:"brewery_registered_at"`
	BusinessRegistrationNumber string `json:"brewery_business_registration_number"`
	Depositor                  string `json:"brewery_depositor"`
	AccountNumber              string `json:"brewery_account_number"`
	BankName                   string `json:"brewery_bank_name"`
	Introduction               string `json:"brewery_introduction"`
	Website                    string `json:"brewery_website"`
	StartTime                  string `json:"brewery_start_time"`
	EndTime                    string `json:"brewery_end_time"`
	IsRegularVisit             bool   `json:"brewery_is_regular_visit"`
	IsVisitingBrewery          bool   `json:"brewery_is_visiting_brewery"`
	IsAgreedBrewery            bool   `json:"brewery_is_agreed_brewery"`
	IsDeleted                  bool   `json:"brewery_is_deleted"`
}

// UserInfo is the logged-in seller's account record, with the brewery
// detail attached for brewery accounts.
type UserInfo struct {
	UserID        int64   `json:"users_id"`
	RoleName      string  `json:"role_name"`
	Email         string  `json:"users_email"`
	Nickname      string  `json:"users_nickname"`
	Name          string  `json:"users_name"`
	Phone         string  `json:"users_phone"`
	Birth         string  `json:"users_birth"`
	Gender        string  `json:"users_gender"`
	Address       string  `json:"users_address"`
	AddressDetail string  `json:"users_address_detail"`
	Brewery       *Detail `json:"brewery,omitempty"`
}

// Form carries the editable brewery profile fields. Empty string fields
// are omitted from the update, matching the console's partial-update
// behavior; the boolean and visiting-hours fields are always sent.
type Form struct {
	Name                       string
	Address                    string
	AddressDetail              string
	BusinessRegistrationNumber string
	Depositor                  string
	AccountNumber              string
	BankName                   string
	Introduction               string
	Website                    string
	IsRegularVisit             bool
	StartTime                  string
	EndTime                    string
}

type Client struct {
	gateway *gateway.Client
}

func New(gw *gateway.Client) *Client {
	return &Client{gateway: gw}
}

// Me returns the current seller's account and brewery detail.
func (c *Client) Me(ctx context.Context) (*UserInfo, error) {
	var info UserInfo
	if _, err := c.gateway.GetJSON(ctx, mePath, &info); err != nil {
		return nil, errors.Wrap(err, "[Brewery.Me]")
	}
	return &info, nil
}

// Update submits the brewery profile form. Returns the backend's
// confirmation message.
func (c *Client) Update(ctx context.Context, form Form, removeImageIDs []int64) (string, error) {
	envelope, err := c.gateway.PostMultipart(ctx, updatePath, func(w *multipart.Writer) error {
		fields := map[string]string{
			"brewery_name":                 form.Name,
			"brewery_address":              form.Address,
			"brewery_address_detail":       form.AddressDetail,
			"business_registration_number": form.BusinessRegistrationNumber,
			"brewery_depositor":            form.Depositor,
			"brewery_account_number":       form.AccountNumber,
			"brewery_bank_name":            form.BankName,
			"introduction":                 form.Introduction,
			"brewery_website":              form.Website,
		}
		for field, value := range fields {
			if value == "" {
				continue
			}
			if err := w.WriteField(field, value); err != nil {
				return err
			}
		}
		if err := w.WriteField("is_regular_visit", strconv.FormatBool(form.IsRegularVisit)); err != nil {
			return err
		}
		if err := w.WriteField("start_time", form.StartTime); err != nil {
			return err
		}
		if err := w.WriteField("end_time", form.EndTime); err != nil {
			return err
		}
		for _, id := range removeImageIDs {
			if err := w.WriteField("remove_images", strconv.FormatInt(id, 10)); err != nil {
				return err
			}
		}
		return nil
	}, nil)
	if err != nil {
		return "", errors.Wrap(err, "[Brewery.Update]")
	}
	return envelope.Message, nil
}
