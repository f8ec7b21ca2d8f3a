package zoho

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/samandr77/microservices/invoice/internal/entity"
)

type contactsResponse struct {
	Contacts []struct {
		ContactID string `json:"contact_id"`
	} `json:"contacts"`
}

// FindContactByEmail returns the first contact id with the given email. found is false when none match.
func (c *Client) FindContactByEmail(ctx context.Context, accessToken, email string) (string, bool, error) {
	query := url.Values{"email": []string{email}}

	code, body, err := c.apiRequest(ctx, accessToken, http.MethodGet, "/contacts", query, nil)
	if err != nil {
		return "", false, err
	}

	if code != http.StatusOK {
		return "", false, unexpectedStatus("search contacts", code, body)
	}

	var respData contactsResponse

	err = json.Unmarshal(body, &respData)
	if err != nil {
		return "", false, fmt.Errorf("%w: unmarshal contacts: %w", entity.ErrRemote, err)
	}

	if len(respData.Contacts) == 0 {
		return "", false, nil
	}

	return respData.Contacts[0].ContactID, true, nil
}

type contactPerson struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	IsPrimaryContact bool   `json:"is_primary_contact"`
}

type createContactRequest struct {
	ContactName    string          `json:"contact_name"`
	ContactPersons []contactPerson `json:"contact_persons"`
	BillingAddress *entity.Address `json:"billing_address,omitempty"`
}

type createContactResponse struct {
	Contact struct {
		ContactID string `json:"contact_id"`
	} `json:"contact"`
}

func (c *Client) CreateContact(ctx context.Context, accessToken string, customer entity.CustomerInfo) (string, error) {
	reqData := createContactRequest{
		ContactName: customer.ContactName(),
		ContactPersons: []contactPerson{
			{
				FirstName:        customer.FirstName,
				LastName:         customer.LastName,
				Email:            customer.Email,
				Phone:            customer.Phone,
				IsPrimaryContact: true,
			},
		},
		BillingAddress: customer.BillingAddress,
	}

	code, body, err := c.apiRequest(ctx, accessToken, http.MethodPost, "/contacts", nil, reqData)
	if err != nil {
		return "", err
	}

	if code != http.StatusCreated {
		return "", unexpectedStatus("create contact", code, body)
	}

	var respData createContactResponse

	err = json.Unmarshal(body, &respData)
	if err != nil {
		return "", fmt.Errorf("%w: unmarshal contact: %w", entity.ErrRemote, err)
	}

	if respData.Contact.ContactID == "" {
		return "", fmt.Errorf("%w: create contact: empty contact_id: %s", entity.ErrRemote, body)
	}

	return respData.Contact.ContactID, nil
}
