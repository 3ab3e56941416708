package handler

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeRaw mirrors the handler's body decoding: a generic tree with numbers
// kept as json.Number.
func decodeRaw(t *testing.T, body string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var raw map[string]any
	require.NoError(t, dec.Decode(&raw))
	return raw
}

const validPendingBody = `{
	"status": "pending",
	"clientName": "Bob",
	"clientEmail": "b@x.com",
	"paymentTerms": 7,
	"createdAt": "2024-01-01",
	"description": "svc",
	"items": [{"name": "A", "quantity": 2, "price": 10.00}]
}`

func TestValidateValidPendingInvoice(t *testing.T) {
	errs := ValidateInvoice(decodeRaw(t, validPendingBody))
	assert.Empty(t, errs)
}

func TestValidateMinimalDraft(t *testing.T) {
	// Drafts carry no required fields beyond status itself.
	errs := ValidateInvoice(decodeRaw(t, `{"status": "draft", "clientName": "Alice"}`))
	assert.Empty(t, errs)
}

func TestValidatePendingRequiresFields(t *testing.T) {
	errs := ValidateInvoice(decodeRaw(t, `{"status": "pending"}`))
	for _, field := range []string{"clientName", "clientEmail", "paymentTerms", "createdAt", "items", "description"} {
		assert.Contains(t, errs, field)
	}
}

func TestValidateCollectsEveryFailure(t *testing.T) {
	errs := ValidateInvoice(decodeRaw(t, `{
		"status": "pending",
		"clientName": "Bob",
		"clientEmail": "not-an-email",
		"paymentTerms": 5,
		"createdAt": "01/01/2024",
		"description": "svc",
		"items": []
	}`))
	assert.Contains(t, errs, "clientEmail")
	assert.Contains(t, errs, "paymentTerms")
	assert.Contains(t, errs, "createdAt")
	assert.Contains(t, errs, "items")
}

func TestValidateStatus(t *testing.T) {
	cases := map[string]string{
		"missing":     `{"clientName": "Alice"}`,
		"null":        `{"status": null}`,
		"paid":        `{"status": "paid"}`,
		"unknown":     `{"status": "cancelled"}`,
		"wrong type":  `{"status": 1}`,
		"capitalized": `{"status": "Draft"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			errs := ValidateInvoice(decodeRaw(t, body))
			assert.Contains(t, errs, "status")
		})
	}
}

func TestValidatePaymentTermsEnum(t *testing.T) {
	for _, terms := range []string{"1", "7", "14", "30"} {
		errs := ValidateInvoice(decodeRaw(t, `{"status": "draft", "paymentTerms": `+terms+`}`))
		assert.Empty(t, errs, "terms %s", terms)
	}
	for _, terms := range []string{"0", "5", "15", "31", "-7", "7.5", `"7"`} {
		errs := ValidateInvoice(decodeRaw(t, `{"status": "draft", "paymentTerms": `+terms+`}`))
		assert.Contains(t, errs, "paymentTerms", "terms %s", terms)
	}
}

func TestValidateQuantityNotCoerced(t *testing.T) {
	// A numeric string is not an integer; neither is a fractional number.
	for _, qty := range []string{`"abc"`, `"3"`, `2.5`, `true`, `""`} {
		errs := ValidateInvoice(decodeRaw(t, `{"status": "draft", "items": [{"quantity": `+qty+`}]}`))
		assert.Contains(t, errs, "items.0.quantity", "quantity %s", qty)
	}
}

func TestValidateQuantityRange(t *testing.T) {
	for _, qty := range []string{"0", "-1", "1000000"} {
		errs := ValidateInvoice(decodeRaw(t, `{"status": "draft", "items": [{"quantity": `+qty+`}]}`))
		assert.Contains(t, errs, "items.0.quantity", "quantity %s", qty)
	}
	errs := ValidateInvoice(decodeRaw(t, `{"status": "draft", "items": [{"quantity": 999999}]}`))
	assert.Empty(t, errs)
}

func TestValidatePrice(t *testing.T) {
	for _, price := range []string{`"10.00"`, `-0.01`, `1000000`, `1.999`} {
		errs := ValidateInvoice(decodeRaw(t, `{"status": "draft", "items": [{"price": `+price+`}]}`))
		assert.Contains(t, errs, "items.0.price", "price %s", price)
	}
	for _, price := range []string{"0", "10", "10.5", "999999.99"} {
		errs := ValidateInvoice(decodeRaw(t, `{"status": "draft", "items": [{"price": `+price+`}]}`))
		assert.Empty(t, errs, "price %s", price)
	}
}

func TestValidateItemErrorsCarryIndexedPaths(t *testing.T) {
	errs := ValidateInvoice(decodeRaw(t, `{
		"status": "pending",
		"clientName": "Bob",
		"clientEmail": "b@x.com",
		"paymentTerms": 7,
		"createdAt": "2024-01-01",
		"description": "svc",
		"items": [
			{"name": "ok", "quantity": 1, "price": 1.00},
			{"name": "ok", "quantity": "abc", "price": 1.00}
		]
	}`))
	assert.NotContains(t, errs, "items.0.quantity")
	assert.Contains(t, errs, "items.1.quantity")
}

func TestValidateStringLengths(t *testing.T) {
	long := strings.Repeat("x", 101)
	errs := ValidateInvoice(decodeRaw(t, `{"status": "draft", "clientName": "`+long+`"}`))
	assert.Contains(t, errs, "clientName")

	longName := strings.Repeat("y", 61)
	errs = ValidateInvoice(decodeRaw(t, `{"status": "draft", "items": [{"name": "`+longName+`"}]}`))
	assert.Contains(t, errs, "items.0.name")
}

func TestValidateEmail(t *testing.T) {
	errs := ValidateInvoice(decodeRaw(t, `{"status": "draft", "clientEmail": "b@x.com"}`))
	assert.Empty(t, errs)
	errs = ValidateInvoice(decodeRaw(t, `{"status": "draft", "clientEmail": "nope"}`))
	assert.Contains(t, errs, "clientEmail")
}

func TestValidateAddressSubFields(t *testing.T) {
	// Addresses stay optional even for pending invoices.
	errs := ValidateInvoice(decodeRaw(t, validPendingBody))
	assert.Empty(t, errs)

	errs = ValidateInvoice(decodeRaw(t, `{"status": "draft", "senderAddress": {"postCode": "`+strings.Repeat("1", 11)+`"}}`))
	assert.Contains(t, errs, "senderAddress.postCode")

	errs = ValidateInvoice(decodeRaw(t, `{"status": "draft", "clientAddress": "not an object"}`))
	assert.Contains(t, errs, "clientAddress")
}

func TestValidateEmptyStringsCountAsMissing(t *testing.T) {
	errs := ValidateInvoice(decodeRaw(t, `{
		"status": "pending",
		"clientName": "",
		"clientEmail": "",
		"paymentTerms": 7,
		"createdAt": "2024-01-01",
		"description": "",
		"items": [{"name": "", "quantity": 2, "price": 10.00}]
	}`))
	assert.Contains(t, errs, "clientName")
	assert.Contains(t, errs, "clientEmail")
	assert.Contains(t, errs, "description")
	assert.Contains(t, errs, "items.0.name")
}

func TestValidateEmptyStringsAllowedWhenDraft(t *testing.T) {
	// Empty strings behave exactly like nulls: fine on a draft, and they
	// skip the format checks an actual value would get.
	errs := ValidateInvoice(decodeRaw(t, `{
		"status": "draft",
		"clientName": "",
		"clientEmail": "",
		"createdAt": "",
		"description": "",
		"items": [{"name": ""}]
	}`))
	assert.Empty(t, errs)
}

func TestValidateNullsAllowedWhenDraft(t *testing.T) {
	errs := ValidateInvoice(decodeRaw(t, `{
		"status": "draft",
		"clientName": null,
		"clientEmail": null,
		"paymentTerms": null,
		"createdAt": null,
		"items": null,
		"description": null
	}`))
	assert.Empty(t, errs)
}
