package handler

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"invoice-app/internal/models"
)

// Field limits mirror the invoice table's column sizes.
const (
	maxClientName  = 100
	maxClientEmail = 254
	maxDescription = 1000
	maxItemName    = 60
	maxQuantity    = 999999
)

var maxItemPrice = decimal.RequireFromString("999999.99")

var validate = validator.New()

// FieldErrors accumulates every rule violation keyed by the field's dotted
// path, e.g. "items.2.quantity".
type FieldErrors map[string][]string

func (e FieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// valueCheck validates a present, non-null raw value and records any
// violations. Presence and required-ness are handled by the schema loop.
type valueCheck func(field string, v any, errs FieldErrors)

// fieldRule binds a field path to its type/format check and to whether the
// field becomes mandatory once the sibling status is "pending".
type fieldRule struct {
	field              string
	requiredForPending bool
	check              valueCheck
}

var invoiceRules = []fieldRule{
	{"clientName", true, stringCheck(maxClientName)},
	{"clientEmail", true, emailCheck},
	{"paymentTerms", true, termsCheck},
	{"createdAt", true, dateCheck},
	{"description", true, stringCheck(maxDescription)},
	{"senderAddress", false, objectCheck},
	{"senderAddress.street", false, stringCheck(100)},
	{"senderAddress.city", false, stringCheck(50)},
	{"senderAddress.postCode", false, stringCheck(10)},
	{"senderAddress.country", false, stringCheck(60)},
	{"clientAddress", false, objectCheck},
	{"clientAddress.street", false, stringCheck(100)},
	{"clientAddress.city", false, stringCheck(50)},
	{"clientAddress.postCode", false, stringCheck(10)},
	{"clientAddress.country", false, stringCheck(60)},
}

// ValidateInvoice checks a decoded create/update body against the invoice
// schema and returns every violation at once. An empty result means the
// payload is fully well-formed; nothing is ever partially accepted.
func ValidateInvoice(raw map[string]any) FieldErrors {
	errs := FieldErrors{}

	status, statusOK := checkStatus(raw, errs)
	pending := statusOK && status == models.StatusPending

	for _, rule := range invoiceRules {
		v, present := lookup(raw, rule.field)
		// An empty string counts as an absent value: required fields
		// reject it, optional fields skip their format checks.
		if s, ok := v.(string); ok && s == "" {
			present = false
		}
		if !present || v == nil {
			if rule.requiredForPending && pending {
				errs.add(rule.field, "required when status is pending")
			}
			continue
		}
		rule.check(rule.field, v, errs)
	}

	checkItems(raw, pending, errs)
	return errs
}

// checkStatus enforces that status is present and is exactly "draft" or
// "pending". "paid" is never accepted as client input; it is only reachable
// through the mark-paid endpoint.
func checkStatus(raw map[string]any, errs FieldErrors) (models.InvoiceStatus, bool) {
	v, present := raw["status"]
	if !present || v == nil {
		errs.add("status", "status is required")
		return "", false
	}
	s, ok := v.(string)
	if !ok || (s != string(models.StatusDraft) && s != string(models.StatusPending)) {
		errs.add("status", `must be either "draft" or "pending"`)
		return "", false
	}
	return models.InvoiceStatus(s), true
}

func checkItems(raw map[string]any, pending bool, errs FieldErrors) {
	v, present := raw["items"]
	if !present || v == nil {
		if pending {
			errs.add("items", "required when status is pending")
		}
		return
	}
	list, ok := v.([]any)
	if !ok {
		errs.add("items", "must be an array")
		return
	}
	if pending && len(list) == 0 {
		errs.add("items", "at least one item is required when status is pending")
	}
	for i, elem := range list {
		prefix := fmt.Sprintf("items.%d", i)
		item, ok := elem.(map[string]any)
		if !ok {
			errs.add(prefix, "each item must be an object")
			continue
		}
		checkItem(item, prefix, pending, errs)
	}
}

func checkItem(item map[string]any, prefix string, pending bool, errs FieldErrors) {
	name, present := item["name"]
	if s, ok := name.(string); ok && s == "" {
		present = false
	}
	switch {
	case !present || name == nil:
		if pending {
			errs.add(prefix+".name", "required when status is pending")
		}
	default:
		stringCheck(maxItemName)(prefix+".name", name, errs)
	}

	// Quantities must arrive as JSON integers. A numeric string or a
	// fractional number is rejected, never coerced.
	qty, present := item["quantity"]
	switch {
	case !present || qty == nil:
		if pending {
			errs.add(prefix+".quantity", "required when status is pending")
		}
	default:
		n, ok := qty.(json.Number)
		if !ok {
			errs.add(prefix+".quantity", "must be an integer")
			break
		}
		q, err := n.Int64()
		if err != nil {
			errs.add(prefix+".quantity", "must be an integer")
		} else if q < 1 || q > maxQuantity {
			errs.add(prefix+".quantity", fmt.Sprintf("must be between 1 and %d", maxQuantity))
		}
	}

	price, present := item["price"]
	switch {
	case !present || price == nil:
		if pending {
			errs.add(prefix+".price", "required when status is pending")
		}
	default:
		n, ok := price.(json.Number)
		if !ok {
			errs.add(prefix+".price", "must be a number")
			break
		}
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			errs.add(prefix+".price", "must be a number")
			break
		}
		if d.IsNegative() || d.GreaterThan(maxItemPrice) {
			errs.add(prefix+".price", "must be between 0 and 999999.99")
		}
		if d.Exponent() < -2 {
			errs.add(prefix+".price", "must have at most 2 decimal places")
		}
	}
}

func stringCheck(max int) valueCheck {
	return func(field string, v any, errs FieldErrors) {
		s, ok := v.(string)
		if !ok {
			errs.add(field, "must be a string")
			return
		}
		if utf8.RuneCountInString(s) > max {
			errs.add(field, fmt.Sprintf("must be at most %d characters", max))
		}
	}
}

func emailCheck(field string, v any, errs FieldErrors) {
	s, ok := v.(string)
	if !ok {
		errs.add(field, "must be a string")
		return
	}
	if utf8.RuneCountInString(s) > maxClientEmail {
		errs.add(field, fmt.Sprintf("must be at most %d characters", maxClientEmail))
	}
	if validate.Var(s, "email") != nil {
		errs.add(field, "must be a valid email address")
	}
}

func termsCheck(field string, v any, errs FieldErrors) {
	n, ok := v.(json.Number)
	if !ok {
		errs.add(field, "must be one of 1, 7, 14 or 30")
		return
	}
	t, err := n.Int64()
	if err != nil || !models.PaymentTerms(t).Valid() {
		errs.add(field, "must be one of 1, 7, 14 or 30")
	}
}

func dateCheck(field string, v any, errs FieldErrors) {
	s, ok := v.(string)
	if !ok {
		errs.add(field, "must be a date string")
		return
	}
	if _, err := models.ParseDate(s); err != nil {
		errs.add(field, "must be a valid date (YYYY-MM-DD)")
	}
}

func objectCheck(field string, v any, errs FieldErrors) {
	if _, ok := v.(map[string]any); !ok {
		errs.add(field, "must be an object")
	}
}

// lookup resolves a dotted path like "senderAddress.street" inside the
// decoded body. A missing intermediate object counts as absent.
func lookup(raw map[string]any, path string) (any, bool) {
	var cur any = raw
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
