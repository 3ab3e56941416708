package handler

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"invoice-app/internal/models"
)

// invoicePayload is the typed form of a body that has already passed
// validation and sanitization. Nil pointers mean the field was absent or
// null in the request.
type invoicePayload struct {
	Status        models.InvoiceStatus
	ClientName    *string
	ClientEmail   *string
	PaymentTerms  *models.PaymentTerms
	IssuedAt      *models.Date
	Items         []models.LineItem
	HasItems      bool
	SenderAddress *models.Address
	ClientAddress *models.Address
	Description   *string
}

// buildPayload converts the sanitized tree into its typed form. It must only
// run after ValidateInvoice succeeded, so conversions cannot fail.
func buildPayload(raw map[string]any) *invoicePayload {
	p := &invoicePayload{
		ClientName:    optString(raw, "clientName"),
		ClientEmail:   optString(raw, "clientEmail"),
		Description:   optString(raw, "description"),
		SenderAddress: optAddress(raw, "senderAddress"),
		ClientAddress: optAddress(raw, "clientAddress"),
	}
	if s, ok := raw["status"].(string); ok {
		p.Status = models.InvoiceStatus(s)
	}
	if n, ok := raw["paymentTerms"].(json.Number); ok {
		v, _ := n.Int64()
		terms := models.PaymentTerms(v)
		p.PaymentTerms = &terms
	}
	if s, ok := raw["createdAt"].(string); ok {
		d, _ := models.ParseDate(s)
		p.IssuedAt = &d
	}
	if v, present := raw["items"]; present && v != nil {
		p.HasItems = true
		p.Items = buildItems(v.([]any))
	}
	return p
}

func buildItems(list []any) []models.LineItem {
	items := make([]models.LineItem, 0, len(list))
	for _, elem := range list {
		raw := elem.(map[string]any)
		var item models.LineItem
		if s, ok := raw["name"].(string); ok {
			item.Name = s
		}
		if n, ok := raw["quantity"].(json.Number); ok {
			item.Quantity, _ = n.Int64()
		}
		if n, ok := raw["price"].(json.Number); ok {
			item.Price, _ = decimal.NewFromString(n.String())
		}
		items = append(items, item)
	}
	return items
}

// optString treats an empty string like null, matching the validation rules.
func optString(raw map[string]any, key string) *string {
	if s, ok := raw[key].(string); ok && s != "" {
		return &s
	}
	return nil
}

func optAddress(raw map[string]any, key string) *models.Address {
	m, ok := raw[key].(map[string]any)
	if !ok {
		return nil
	}
	addr := &models.Address{}
	if s, ok := m["street"].(string); ok {
		addr.Street = s
	}
	if s, ok := m["city"].(string); ok {
		addr.City = s
	}
	if s, ok := m["postCode"].(string); ok {
		addr.PostCode = s
	}
	if s, ok := m["country"].(string); ok {
		addr.Country = s
	}
	return addr
}
