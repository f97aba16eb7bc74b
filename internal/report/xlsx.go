package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spa-sentirse-bien/spa-server/internal/dto"
)

// XLSXContentType is the MIME type of the spreadsheets produced here.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func newSheet(name string, header []string) (*sheetWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		f.Close()
		return nil, err
	}

	w := &sheetWriter{f: f, sheet: name, row: 1}
	if err := w.append(toAny(header)...); err != nil {
		f.Close()
		return nil, err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#F5F5F5"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#808080"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(name, "A1", last, style); err != nil {
		f.Close()
		return nil, err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetColWidth(name, "A", lastCol, 22); err != nil {
		f.Close()
		return nil, err
	}

	return w, nil
}

func (w *sheetWriter) append(values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		return err
	}
	w.row++
	return nil
}

func (w *sheetWriter) bytes() ([]byte, error) {
	defer w.f.Close()
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func IncomeXLSX(rows []dto.IncomeRow, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}

	w, err := newSheet("Ingresos", []string{"Cliente", "Servicio", "Método de Pago", "Monto", "Fecha de Pago"})
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		amount, _ := r.Amount.Float64()
		if err := w.append(r.Client, r.Service, r.Method, amount, r.PaidAt.In(loc).Format(dmy)); err != nil {
			w.f.Close()
			return nil, err
		}
	}

	t := IncomeTotals(rows)
	credit, _ := t.Credit.Float64()
	debit, _ := t.Debit.Float64()
	total, _ := t.Total.Float64()

	w.row++
	for _, line := range [][]any{
		{"", "", "Subtotal Tarjeta de Crédito", credit},
		{"", "", "Subtotal Tarjeta de Débito", debit},
		{"", "", "Total Ingresado", total},
	} {
		if err := w.append(line...); err != nil {
			w.f.Close()
			return nil, err
		}
	}

	return w.bytes()
}

func ServicesXLSX(rows []dto.ServiceCountRow) ([]byte, error) {
	w, err := newSheet("Servicios", []string{"Nombre", "Apellido", "Servicio", "Total Servicios"})
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		if err := w.append(r.FirstName, r.LastName, r.Service, r.Total); err != nil {
			w.f.Close()
			return nil, err
		}
	}

	return w.bytes()
}
