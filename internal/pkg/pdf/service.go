// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	Order         *order.Order
	Items         []InvoiceItem
	Total         string
	Company       CompanyInfo
}

// InvoiceItem is one priced line on the invoice
type InvoiceItem struct {
	Name      string
	Size      string
	Quantity  int
	UnitPrice string
	LineTotal string
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string
	Address string
	Email   string
}

// GenerateInvoice renders a PDF invoice for an order. Only checked-out items
// appear on the invoice.
func (s *Service) GenerateInvoice(ord *order.Order) (*bytes.Buffer, error) {
	items := ord.CheckedOutItems()
	invoiceItems := make([]InvoiceItem, 0, len(items))
	for _, item := range items {
		invoiceItems = append(invoiceItems, InvoiceItem{
			Name:      item.Name,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: formatCents(item.Price),
			LineTotal: formatCents(item.TotalPrice),
		})
	}

	data := InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s", ord.OrderNumber),
		InvoiceDate:   time.Now().Format("January 2, 2006"),
		Order:         ord,
		Items:         invoiceItems,
		Total:         formatCents(ord.TotalAmount),
		Company: CompanyInfo{
			Name:    s.config.App.CompanyName,
			Address: s.config.App.CompanyAddress,
			Email:   s.config.App.CompanyEmail,
		},
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) generateHTML(data InvoiceData) (string, error) {
	tmpl := template.Must(template.New("invoice").Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func formatCents(v int64) string {
	return fmt.Sprintf("$%.2f", float64(v)/100)
}

// Invoice HTML template
const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { margin-bottom: 30px; border-bottom: 2px solid #eee; padding-bottom: 20px; }
        .invoice-title { font-size: 28px; font-weight: bold; color: #2563eb; }
        .meta { margin-bottom: 20px; }
        table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
        th, td { text-align: left; padding: 8px; border-bottom: 1px solid #eee; }
        th { background: #f8fafc; }
        .total-row td { font-weight: bold; border-top: 2px solid #333; }
        .footer { margin-top: 40px; font-size: 12px; color: #777; }
    </style>
</head>
<body>
    <div class="header">
        <div class="invoice-title">INVOICE</div>
        <div>{{.Company.Name}}</div>
        <div>{{.Company.Address}}</div>
        <div>{{.Company.Email}}</div>
    </div>

    <div class="meta">
        <div><strong>Invoice:</strong> {{.InvoiceNumber}}</div>
        <div><strong>Date:</strong> {{.InvoiceDate}}</div>
        <div><strong>Order:</strong> {{.Order.OrderNumber}}</div>
        <div><strong>Status:</strong> {{.Order.Status}}</div>
        <div><strong>Billed to:</strong> {{.Order.CustomerInfo.Name}}, {{.Order.CustomerInfo.AddressLine1}}, {{.Order.CustomerInfo.City}}</div>
    </div>

    <table>
        <thead>
            <tr>
                <th>Item</th>
                <th>Size</th>
                <th>Qty</th>
                <th>Unit Price</th>
                <th>Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Items}}
            <tr>
                <td>{{.Name}}</td>
                <td>{{.Size}}</td>
                <td>{{.Quantity}}</td>
                <td>{{.UnitPrice}}</td>
                <td>{{.LineTotal}}</td>
            </tr>
            {{end}}
            <tr class="total-row">
                <td colspan="4">Total</td>
                <td>{{.Total}}</td>
            </tr>
        </tbody>
    </table>

    <div class="footer">
        Payment method: {{.Order.PaymentMethod}} | Payment status: {{.Order.PaymentStatus}}
    </div>
</body>
</html>`
