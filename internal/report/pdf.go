// Package report renders income, service and invoice documents as PDF and
// spreadsheet files.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/spa-sentirse-bien/spa-server/internal/dto"
)

const (
	spaName  = "Spa Sentirse Bien"
	dmy      = "02/01/2006"
	logoName = "logo"
)

type PDFRenderer struct {
	logo []byte
	loc  *time.Location
}

// NewPDFRenderer takes PNG logo bytes (may be nil) and the zone used to
// print timestamps.
func NewPDFRenderer(logo []byte, loc *time.Location) *PDFRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &PDFRenderer{logo: logo, loc: loc}
}

type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (r *PDFRenderer) newDocument(title string) *document {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle(title, true)
	pdf.SetAuthor(spaName, true)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	d := &document{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}

	if len(r.logo) > 0 {
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(logoName, opts, bytes.NewReader(r.logo))
		pageW, _ := pdf.GetPageSize()
		pdf.ImageOptions(logoName, (pageW-60)/2, 10, 60, 0, true, opts, 0, "")
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, d.tr(spaName), "", 1, "C", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(0, 8, d.tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	return d
}

// table draws a header row on grey and the body rows on a grid.
func (d *document) table(widths []float64, header []string, rows [][]string) {
	pdf := d.pdf

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(245, 245, 245)
	for i, h := range header {
		pdf.CellFormat(widths[i], 8, d.tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, d.tr(cell), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func (d *document) rightLine(text string) {
	d.pdf.SetFont("Helvetica", "B", 12)
	d.pdf.CellFormat(0, 7, d.tr(text), "", 1, "R", false, 0, "")
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) Income(rows []dto.IncomeRow, from, to string) ([]byte, error) {
	d := r.newDocument(fmt.Sprintf("Informe de Ingresos - %s a %s", from, to))

	if len(rows) > 0 {
		body := make([][]string, 0, len(rows))
		for _, row := range rows {
			client := row.Client
			if client == "" {
				client = "Desconocido"
			}
			body = append(body, []string{
				client,
				row.Service,
				row.Method,
				money(row.Amount),
				row.PaidAt.In(r.loc).Format(dmy),
			})
		}
		d.table(
			[]float64{45, 40, 40, 25, 35},
			[]string{"Cliente", "Servicio", "Método de Pago", "Monto", "Fecha de Pago"},
			body,
		)
		d.pdf.Ln(6)
	}

	t := IncomeTotals(rows)
	d.rightLine("Subtotal Tarjeta de Crédito: " + money(t.Credit))
	d.rightLine("Subtotal Tarjeta de Débito: " + money(t.Debit))
	d.rightLine("Total Ingresado: " + money(t.Total))

	return d.bytes()
}

func (r *PDFRenderer) ServicesByProfessional(rows []dto.ServiceCountRow, from, to string) ([]byte, error) {
	d := r.newDocument(fmt.Sprintf("Servicios por Profesional - %s a %s", from, to))

	body := make([][]string, 0, len(rows))
	var total int64
	for _, row := range rows {
		body = append(body, []string{
			row.FirstName,
			row.LastName,
			row.Service,
			strconv.FormatInt(row.Total, 10),
		})
		total += row.Total
	}
	d.table(
		[]float64{45, 45, 55, 40},
		[]string{"Nombre", "Apellido", "Servicio", "Total Servicios"},
		body,
	)
	d.pdf.Ln(6)
	d.rightLine("Total de servicios: " + strconv.FormatInt(total, 10))

	return d.bytes()
}

func (r *PDFRenderer) Invoice(inv *dto.InvoiceDetail) ([]byte, error) {
	d := r.newDocument("Factura")
	pdf := d.pdf

	pdf.SetFont("Helvetica", "", 11)
	line := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 7, d.tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, d.tr(value), "", 1, "L", false, 0, "")
	}

	line("Factura N°:", inv.Number)
	line("Fecha de emisión:", inv.IssuedAt.In(r.loc).Format("02/01/2006 15:04"))
	line("Cliente:", inv.Client)
	if inv.Email != "" {
		line("Email:", inv.Email)
	}
	line("Método de pago:", inv.Method)
	pdf.Ln(6)

	turno := inv.Date
	if inv.Time != "" {
		turno += " " + inv.Time
	}
	d.table(
		[]float64{90, 55, 40},
		[]string{"Servicio", "Turno", "Importe"},
		[][]string{{inv.Service, turno, money(inv.Total)}},
	)
	pdf.Ln(6)
	d.rightLine("Total: " + money(inv.Total))

	return d.bytes()
}
