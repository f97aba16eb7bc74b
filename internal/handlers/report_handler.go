package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spa-sentirse-bien/spa-server/internal/dto"
	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/httpresp"
	"github.com/spa-sentirse-bien/spa-server/internal/report"
	"github.com/spa-sentirse-bien/spa-server/internal/timezone"
	ucReport "github.com/spa-sentirse-bien/spa-server/internal/usecase/report"
)

type ReportHandler struct {
	reports *ucReport.Reports
	pdf     *report.PDFRenderer
	loc     *time.Location
}

func NewReportHandler(
	reports *ucReport.Reports,
	pdf *report.PDFRenderer,
	loc *time.Location,
) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		pdf:     pdf,
		loc:     loc,
	}
}

type ReportRangeRequest struct {
	From string `json:"fecha_inicio" binding:"required,fecha_dmy"`
	To   string `json:"fecha_fin" binding:"required,fecha_dmy"`
}

type incomeRowJSON struct {
	Client  string `json:"cliente"`
	Service string `json:"servicio"`
	Method  string `json:"metodo_pago"`
	Amount  string `json:"monto"`
	PaidAt  string `json:"fecha_pago"`
}

// bindRange answers 400 echoing what the caller sent when the body is not
// a valid DD/MM/AAAA range.
func bindRange(c *gin.Context) (ucReport.Range, bool) {
	var req ReportRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRange(c, req)
		return ucReport.Range{}, false
	}
	return ucReport.Range{From: req.From, To: req.To}, true
}

func badRange(c *gin.Context, req ReportRangeRequest) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":                 "Formato de fecha incorrecto. Debe ser DD/MM/AAAA.",
		"error_code":            "invalid_date_range",
		"fecha_inicio_original": req.From,
		"fecha_fin_original":    req.To,
	})
}

func (h *ReportHandler) fail(c *gin.Context, rng ucReport.Range, err error, fallback string) {
	if httperr.IsBusiness(err, "invalid_date_range") {
		badRange(c, ReportRangeRequest{From: rng.From, To: rng.To})
		return
	}
	respondError(c, err, fallback)
}

func reportFileName(prefix string, rng ucReport.Range, ext string) string {
	return prefix + "_" +
		strings.ReplaceAll(rng.From, "/", "-") + "_" +
		strings.ReplaceAll(rng.To, "/", "-") + ext
}

// ======================================================
// INCOME
// ======================================================

func (h *ReportHandler) income(c *gin.Context) (*ucReport.IncomeReport, bool) {
	rng, ok := bindRange(c)
	if !ok {
		return nil, false
	}

	rep, err := h.reports.Income(c.Request.Context(), rng)
	if err != nil {
		h.fail(c, rng, err, "Error al ejecutar la consulta de ingresos.")
		return nil, false
	}
	return rep, true
}

func (h *ReportHandler) Income(c *gin.Context) {
	rep, ok := h.income(c)
	if !ok {
		return
	}

	out := make([]incomeRowJSON, 0, len(rep.Rows))
	for _, r := range rep.Rows {
		out = append(out, incomeRowJSON{
			Client:  r.Client,
			Service: r.Service,
			Method:  r.Method,
			Amount:  r.Amount.StringFixed(2),
			PaidAt:  r.PaidAt.In(h.loc).Format(timezone.DMYLayout),
		})
	}

	httpresp.OK(c, out)
}

func (h *ReportHandler) IncomePDF(c *gin.Context) {
	rep, ok := h.income(c)
	if !ok {
		return
	}

	file, err := h.pdf.Income(rep.Rows, rep.Range.From, rep.Range.To)
	if err != nil {
		respondError(c, err, "Error al generar el PDF de ingresos.")
		return
	}

	sendFile(c, reportFileName("informe_ingresos", rep.Range, ".pdf"), pdfContentType, file)
}

func (h *ReportHandler) IncomeXLSX(c *gin.Context) {
	rep, ok := h.income(c)
	if !ok {
		return
	}

	file, err := report.IncomeXLSX(rep.Rows, h.loc)
	if err != nil {
		respondError(c, err, "Error al generar la planilla de ingresos.")
		return
	}

	sendFile(c, reportFileName("informe_ingresos", rep.Range, ".xlsx"), report.XLSXContentType, file)
}

// ======================================================
// SERVICES BY PROFESSIONAL
// ======================================================

func (h *ReportHandler) services(c *gin.Context) (*ucReport.ServicesReport, bool) {
	rng, ok := bindRange(c)
	if !ok {
		return nil, false
	}

	rep, err := h.reports.ServicesByProfessional(c.Request.Context(), rng)
	if err != nil {
		h.fail(c, rng, err, "Error al ejecutar la consulta de servicios por profesional.")
		return nil, false
	}
	return rep, true
}

func (h *ReportHandler) ServicesByProfessional(c *gin.Context) {
	rep, ok := h.services(c)
	if !ok {
		return
	}

	httpresp.OK(c, nonNil(rep.Rows))
}

func (h *ReportHandler) ServicesByProfessionalPDF(c *gin.Context) {
	rep, ok := h.services(c)
	if !ok {
		return
	}

	file, err := h.pdf.ServicesByProfessional(rep.Rows, rep.Range.From, rep.Range.To)
	if err != nil {
		respondError(c, err, "Error al generar el PDF de servicios por profesional.")
		return
	}

	sendFile(c, reportFileName("informe_servicios_profesional", rep.Range, ".pdf"), pdfContentType, file)
}

func (h *ReportHandler) ServicesByProfessionalXLSX(c *gin.Context) {
	rep, ok := h.services(c)
	if !ok {
		return
	}

	file, err := report.ServicesXLSX(rep.Rows)
	if err != nil {
		respondError(c, err, "Error al generar la planilla de servicios por profesional.")
		return
	}

	sendFile(c, reportFileName("informe_servicios_profesional", rep.Range, ".xlsx"), report.XLSXContentType, file)
}

func nonNil(rows []dto.ServiceCountRow) []dto.ServiceCountRow {
	if rows == nil {
		return []dto.ServiceCountRow{}
	}
	return rows
}
