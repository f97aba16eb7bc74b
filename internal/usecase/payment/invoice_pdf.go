package payment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domain "github.com/spa-sentirse-bien/spa-server/internal/domain/payment"
	"github.com/spa-sentirse-bien/spa-server/internal/dto"
	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
)

type InvoiceRenderer interface {
	Invoice(d *dto.InvoiceDetail) ([]byte, error)
}

// Archiver stores generated documents outside the database.
type Archiver interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

type InvoicePDF struct {
	File   []byte
	Name   string
	Detail *dto.InvoiceDetail
}

type RenderInvoice struct {
	repo     domain.Repository
	renderer InvoiceRenderer
	archive  Archiver
	log      *zap.Logger
}

// NewRenderInvoice builds the use case; archive may be nil.
func NewRenderInvoice(
	repo domain.Repository,
	renderer InvoiceRenderer,
	archive Archiver,
	log *zap.Logger,
) *RenderInvoice {
	return &RenderInvoice{
		repo:     repo,
		renderer: renderer,
		archive:  archive,
		log:      log,
	}
}

func (uc *RenderInvoice) Execute(
	ctx context.Context,
	invoiceID uint,
	clientID uint,
	staff bool,
) (*InvoicePDF, error) {

	detail, err := uc.repo.GetInvoiceDetail(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !staff && detail.ClientID != clientID {
		return nil, httperr.ErrBusiness("invoice_not_found")
	}

	file, err := uc.renderer.Invoice(detail)
	if err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}

	name := fmt.Sprintf("factura_%s.pdf", detail.Number)

	if uc.archive != nil {
		key := "facturas/" + name
		if err := uc.archive.Put(ctx, key, file, "application/pdf"); err != nil {
			// The client still gets the document.
			uc.log.Warn("invoice archive failed", zap.String("key", key), zap.Error(err))
		}
	}

	return &InvoicePDF{File: file, Name: name, Detail: detail}, nil
}
