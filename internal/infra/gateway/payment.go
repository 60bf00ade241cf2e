package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"app/internal/usecase"
)

// Client talks to the external payment gateway's preference API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL string, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type preferenceRequest struct {
	ExternalReference string           `json:"external_reference"`
	Items             []preferenceItem `json:"items"`
	Payer             preferencePayer  `json:"payer"`
}

type preferenceItem struct {
	ProductDetailID int64 `json:"product_detail_id"`
	Quantity        int64 `json:"quantity"`
	UnitPrice       int64 `json:"unit_price"`
}

type preferencePayer struct {
	Name     string `json:"name"`
	Mail     string `json:"mail"`
	Document string `json:"document"`
	Type     string `json:"type"`
}

type preferenceResponse struct {
	Reference   string `json:"reference"`
	PaymentLink string `json:"payment_link"`
}

func (c *Client) CreatePreference(ctx context.Context, in usecase.PreferenceInput) (usecase.Preference, error) {
	body := preferenceRequest{
		ExternalReference: in.ExternalReference,
		Payer: preferencePayer{
			Name:     in.Customer.Name,
			Mail:     in.Customer.Mail,
			Document: in.Customer.Document,
			Type:     in.Customer.Type,
		},
	}
	for _, it := range in.Items {
		body.Items = append(body.Items, preferenceItem{
			ProductDetailID: it.ProductDetailID,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
		})
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return usecase.Preference{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/preferences", bytes.NewReader(raw))
	if err != nil {
		return usecase.Preference{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return usecase.Preference{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return usecase.Preference{}, fmt.Errorf("payment gateway returned %d", resp.StatusCode)
	}

	var out preferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return usecase.Preference{}, err
	}

	ref := out.Reference
	if ref == "" {
		// some gateways echo nothing back; fall back to our own reference
		ref = in.ExternalReference
	}

	return usecase.Preference{
		Reference:   ref,
		PaymentLink: out.PaymentLink,
	}, nil
}
