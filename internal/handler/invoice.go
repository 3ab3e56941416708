package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"invoice-app/internal/models"
	"invoice-app/internal/sanitize"
	"invoice-app/internal/store"
)

type InvoiceHandler struct {
	store *store.InvoiceStore
}

func NewInvoiceHandler(s *store.InvoiceStore) *InvoiceHandler {
	return &InvoiceHandler{store: s}
}

// decodeBody decodes the request body into a generic tree. UseNumber keeps
// numeric leaves as their exact decimal text, so prices survive validation
// without floating-point rounding.
func decodeBody(c *gin.Context) (map[string]any, error) {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func notFound(c *gin.Context, id string) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":      "Invoice not found.",
		"invoice_id": id,
	})
}

func validationFailed(c *gin.Context, errs FieldErrors) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":  "The given data was invalid.",
		"errors": errs,
	})
}

func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.store.List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list invoices")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices"})
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id := c.Param("id")
	inv, err := h.store.Find(id)
	if err == store.ErrNotFound {
		notFound(c, id)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("invoice_id", id).Msg("Failed to fetch invoice")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoice"})
		return
	}
	c.JSON(http.StatusOK, inv)
}

// Create sanitizes, validates and persists a new invoice. Sanitization runs
// first so the length limits apply to the cleaned values that get stored.
// paymentDue and total are always computed server-side; values supplied by
// the caller for either are ignored.
func (h *InvoiceHandler) Create(c *gin.Context) {
	raw, err := decodeBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body."})
		return
	}
	raw = sanitize.Tree(raw).(map[string]any)
	if errs := ValidateInvoice(raw); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}
	p := buildPayload(raw)

	inv := models.Invoice{
		ClientName:    p.ClientName,
		ClientEmail:   p.ClientEmail,
		PaymentTerms:  p.PaymentTerms,
		IssuedAt:      p.IssuedAt,
		Items:         datatypes.JSONSlice[models.LineItem]{},
		Status:        p.Status,
		Total:         models.ItemsTotal(p.Items),
		SenderAddress: p.SenderAddress,
		ClientAddress: p.ClientAddress,
		Description:   p.Description,
	}
	if p.HasItems {
		inv.Items = datatypes.JSONSlice[models.LineItem](p.Items)
	}
	if p.IssuedAt != nil && p.PaymentTerms != nil {
		due := models.DueDate(*p.IssuedAt, *p.PaymentTerms)
		inv.PaymentDue = &due
	}

	if err := h.store.Create(&inv); err != nil {
		log.Error().Err(err).Msg("Failed to create invoice")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice"})
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// Update merges the request into an existing invoice. Only fields present in
// the body are written. total is recomputed only when items is supplied;
// paymentDue is recomputed from the merged invoice date and payment terms.
func (h *InvoiceHandler) Update(c *gin.Context) {
	id := c.Param("id")

	current, err := h.store.Find(id)
	if err == store.ErrNotFound {
		notFound(c, id)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("invoice_id", id).Msg("Failed to fetch invoice")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoice"})
		return
	}
	if current.Status == models.StatusPaid {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "This invoice has been marked as paid and cannot be edited.",
		})
		return
	}

	raw, err := decodeBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body."})
		return
	}
	raw = sanitize.Tree(raw).(map[string]any)
	if errs := ValidateInvoice(raw); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}
	p := buildPayload(raw)

	changes := map[string]any{"status": p.Status}
	if _, ok := raw["clientName"]; ok {
		changes["client_name"] = p.ClientName
	}
	if _, ok := raw["clientEmail"]; ok {
		changes["client_email"] = p.ClientEmail
	}
	if _, ok := raw["createdAt"]; ok {
		changes["issued_at"] = p.IssuedAt
	}
	if _, ok := raw["paymentTerms"]; ok {
		changes["payment_terms"] = p.PaymentTerms
	}
	if _, ok := raw["description"]; ok {
		changes["description"] = p.Description
	}
	if _, ok := raw["senderAddress"]; ok {
		changes["sender_address"] = p.SenderAddress
	}
	if _, ok := raw["clientAddress"]; ok {
		changes["client_address"] = p.ClientAddress
	}
	if p.HasItems {
		changes["items"] = datatypes.JSONSlice[models.LineItem](p.Items)
		changes["total"] = models.ItemsTotal(p.Items)
	}

	// Recompute the due date against the invoice date and terms as they
	// stand after the merge. A draft missing either keeps a null due date.
	issued := current.IssuedAt
	if _, ok := raw["createdAt"]; ok {
		issued = p.IssuedAt
	}
	terms := current.PaymentTerms
	if _, ok := raw["paymentTerms"]; ok {
		terms = p.PaymentTerms
	}
	if issued != nil && terms != nil {
		due := models.DueDate(*issued, *terms)
		changes["payment_due"] = &due
	} else {
		changes["payment_due"] = nil
	}

	updated, err := h.store.Update(id, changes)
	switch err {
	case nil:
		c.JSON(http.StatusOK, updated)
	case store.ErrNotFound:
		notFound(c, id)
	case store.ErrPaidImmutable:
		c.JSON(http.StatusForbidden, gin.H{
			"error": "This invoice has been marked as paid and cannot be edited.",
		})
	default:
		log.Error().Err(err).Str("invoice_id", id).Msg("Failed to update invoice")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invoice"})
	}
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	switch err := h.store.Delete(id); err {
	case nil:
		c.Status(http.StatusNoContent)
	case store.ErrNotFound:
		notFound(c, id)
	default:
		log.Error().Err(err).Str("invoice_id", id).Msg("Failed to delete invoice")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete invoice"})
	}
}

func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	id := c.Param("id")
	inv, err := h.store.MarkPaid(id)
	switch err {
	case nil:
		c.JSON(http.StatusOK, inv)
	case store.ErrNotFound:
		notFound(c, id)
	case store.ErrNotPending:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Only pending invoices can be marked as paid.",
		})
	default:
		log.Error().Err(err).Str("invoice_id", id).Msg("Failed to mark invoice as paid")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark invoice as paid"})
	}
}
