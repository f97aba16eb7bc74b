package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/httpresp"
	"github.com/spa-sentirse-bien/spa-server/internal/identity"
	ucPayment "github.com/spa-sentirse-bien/spa-server/internal/usecase/payment"
)

type PaymentHandler struct {
	pending  *ucPayment.ListPending
	finalize *ucPayment.FinalizePayment
	payAll   *ucPayment.PayAll
	invoices *ucPayment.ListInvoices
	pdf      *ucPayment.RenderInvoice
}

func NewPaymentHandler(
	pending *ucPayment.ListPending,
	finalize *ucPayment.FinalizePayment,
	payAll *ucPayment.PayAll,
	invoices *ucPayment.ListInvoices,
	pdf *ucPayment.RenderInvoice,
) *PaymentHandler {
	return &PaymentHandler{
		pending:  pending,
		finalize: finalize,
		payAll:   payAll,
		invoices: invoices,
		pdf:      pdf,
	}
}

// --------- Requests ---------

type FinalizePaymentRequest struct {
	CardType      string `json:"tipo" binding:"required"`
	ApplyDiscount bool   `json:"applyDiscount"`

	// CardToken and CardBrand come from the card form of the payment
	// gateway when the frontend tokenizes the card.
	CardToken string `json:"card_token"`
	CardBrand string `json:"payment_method_id"`
}

type PayAllRequest struct {
	CardType      string `json:"tipo" binding:"required"`
	ApplyDiscount bool   `json:"applyDiscount"`
}

func callerClientID(id identity.Identity) uint {
	if id.HasClient() {
		return *id.ClientID
	}
	return 0
}

// --------- Handlers ---------

func (h *PaymentHandler) Pending(c *gin.Context) {
	id, _ := identity.From(c)

	items, err := h.pending.Execute(c.Request.Context(), callerClientID(id))
	if err != nil {
		respondError(c, err, "Error al obtener los pagos pendientes.")
		return
	}

	httpresp.OK(c, items)
}

func (h *PaymentHandler) Finalize(c *gin.Context) {
	id, _ := identity.From(c)

	paymentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || paymentID == 0 {
		httperr.NotFound(c, "payment_not_found", "Pago no encontrado.")
		return
	}

	var req FinalizePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_card_type", "Tipo de tarjeta inválido. Use credito o debito.")
		return
	}

	out, err := h.finalize.Execute(c.Request.Context(), ucPayment.FinalizeInput{
		UserID:        id.UserID,
		ClientID:      callerClientID(id),
		Staff:         id.IsStaff(),
		PaymentID:     uint(paymentID),
		CardType:      req.CardType,
		ApplyDiscount: req.ApplyDiscount,
		CardToken:     req.CardToken,
		CardBrand:     req.CardBrand,
	})
	if err != nil {
		respondError(c, err, "Error al finalizar el pago.")
		return
	}

	httpresp.OK(c, gin.H{
		"message":     "Pago finalizado exitosamente",
		"id_factura":  out.Invoice.ID,
		"monto":       out.Amount,
		"metodo_pago": out.Method,
	})
}

func (h *PaymentHandler) PayAll(c *gin.Context) {
	id, _ := identity.From(c)

	var req PayAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_card_type", "Tipo de tarjeta inválido. Use credito o debito.")
		return
	}

	out, err := h.payAll.Execute(c.Request.Context(), ucPayment.PayAllInput{
		UserID:        id.UserID,
		ClientID:      callerClientID(id),
		CardType:      req.CardType,
		ApplyDiscount: req.ApplyDiscount,
	})
	if err != nil {
		respondError(c, err, "Error al procesar los pagos.")
		return
	}

	httpresp.OK(c, gin.H{
		"message":  "Pagos finalizados exitosamente",
		"facturas": out.Invoices,
		"total":    out.Total,
	})
}

func (h *PaymentHandler) Invoices(c *gin.Context) {
	id, _ := identity.From(c)

	items, err := h.invoices.Execute(c.Request.Context(), callerClientID(id))
	if err != nil {
		respondError(c, err, "Error al obtener las facturas.")
		return
	}

	httpresp.OK(c, items)
}

func (h *PaymentHandler) InvoicePDF(c *gin.Context) {
	id, _ := identity.From(c)

	invoiceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || invoiceID == 0 {
		httperr.NotFound(c, "invoice_not_found", "Factura no encontrada.")
		return
	}

	doc, err := h.pdf.Execute(c.Request.Context(), uint(invoiceID), callerClientID(id), id.IsStaff())
	if err != nil {
		respondError(c, err, "Error al generar la factura.")
		return
	}

	sendFile(c, doc.Name, pdfContentType, doc.File)
}

const pdfContentType = "application/pdf"

func sendFile(c *gin.Context, name, contentType string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, contentType, body)
}
