package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestDueDate(t *testing.T) {
	issued := mustDate(t, "2024-01-01")

	cases := []struct {
		terms PaymentTerms
		want  string
	}{
		{Net1, "2024-01-02"},
		{Net7, "2024-01-08"},
		{Net14, "2024-01-15"},
		{Net30, "2024-01-31"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DueDate(issued, tc.terms).String())
	}
}

func TestDueDateCrossesMonthAndYear(t *testing.T) {
	assert.Equal(t, "2024-03-01", DueDate(mustDate(t, "2024-02-29"), Net1).String())
	assert.Equal(t, "2025-01-14", DueDate(mustDate(t, "2024-12-31"), Net14).String())
}

func TestItemsTotal(t *testing.T) {
	items := []LineItem{
		{Name: "Banner Design", Quantity: 2, Price: decimal.RequireFromString("10.00")},
		{Name: "Email Design", Quantity: 3, Price: decimal.RequireFromString("19.99")},
	}
	assert.True(t, ItemsTotal(items).Equal(decimal.RequireFromString("79.97")))
}

func TestItemsTotalEmpty(t *testing.T) {
	assert.True(t, ItemsTotal(nil).IsZero())
	assert.True(t, ItemsTotal([]LineItem{}).IsZero())
}

func TestItemsTotalKeepsCents(t *testing.T) {
	// 3 * 0.10 must not pick up binary float error.
	items := []LineItem{{Quantity: 3, Price: decimal.RequireFromString("0.10")}}
	assert.Equal(t, "0.3", ItemsTotal(items).String())
}

func TestPaymentTermsValid(t *testing.T) {
	for _, terms := range []PaymentTerms{Net1, Net7, Net14, Net30} {
		assert.True(t, terms.Valid())
	}
	for _, terms := range []PaymentTerms{0, 5, 15, 60, -7} {
		assert.False(t, terms.Valid(), "terms %d", terms)
	}
}

func TestInvoiceStatusValid(t *testing.T) {
	assert.True(t, StatusDraft.Valid())
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusPaid.Valid())
	assert.False(t, InvoiceStatus("cancelled").Valid())
	assert.False(t, InvoiceStatus("").Valid())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-08")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-08", d.String())

	// RFC3339 timestamps are truncated to their date.
	d, err = ParseDate("2024-01-08T15:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-08", d.String())

	_, err = ParseDate("08/01/2024")
	assert.Error(t, err)
	_, err = ParseDate("not-a-date")
	assert.Error(t, err)
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := mustDate(t, "2021-08-19")
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2021-08-19"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, d, back)
}

func TestDateScanFromTime(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2021, 8, 19, 13, 45, 0, 0, time.UTC)))
	assert.Equal(t, "2021-08-19", d.String())
}
