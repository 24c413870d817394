package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	// Header: title left, issuing company right
	m.AddRow(30,
		text.NewCol(6, "INVOICE", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		col.New(6).Add(
			text.New(data.CompanyName, props.Text{Size: 9, Align: align.Right}),
			text.New(data.CompanyAddress, props.Text{Size: 9, Align: align.Right, Top: 4}),
			text.New(data.CompanyEmail, props.Text{Size: 9, Align: align.Right, Top: 8}),
			text.New(data.CompanyPhone, props.Text{Size: 9, Align: align.Right, Top: 12}),
		),
	)

	m.AddRow(16,
		col.New(12).Add(
			text.New("Invoice #: "+data.InvoiceNumber, props.Text{Size: 11}),
			text.New("Date: "+data.BillDate, props.Text{Size: 11, Top: 5}),
			text.New("Due Date: "+data.DueDate, props.Text{Size: 11, Top: 10}),
		),
	)

	m.AddRow(30, col.New(12).Add(billToLines(data)...))

	// Line item table
	m.AddRow(8,
		text.NewCol(4, "Service", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(5, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(1, line.NewCol(12))

	for _, item := range data.Items {
		m.AddRow(7,
			text.NewCol(4, item.Service, props.Text{Size: 9}),
			text.NewCol(5, item.Description, props.Text{Size: 9}),
			text.NewCol(3, data.Currency+" "+item.Cost, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(1, line.NewCol(12))
	m.AddRow(10,
		text.NewCol(8, "Total Amount:", props.Text{Size: 11, Align: align.Right, Top: 2}),
		text.NewCol(4, data.Currency+" "+data.Total, props.Text{
			Size:  13,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	status := col.New(12).Add(
		text.New("Payment Status: "+data.PaymentStatus, props.Text{Size: 9}),
	)
	offset := 4.0
	if data.PaymentMethod != "" {
		status.Add(text.New("Payment Method: "+data.PaymentMethod, props.Text{Size: 9, Top: offset}))
		offset += 4
	}
	if data.TransactionID != "" {
		status.Add(text.New("Transaction ID: "+data.TransactionID, props.Text{Size: 9, Top: offset}))
	}
	m.AddRow(16, status)

	if data.Notes != "" {
		m.AddRow(16, col.New(12).Add(
			text.New("Notes:", props.Text{Size: 9, Style: fontstyle.Bold}),
			text.New(data.Notes, props.Text{Size: 9, Top: 4}),
		))
	}

	m.AddRow(10,
		text.NewCol(12, "Thank you for your business!", props.Text{Size: 8, Align: align.Left}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func billToLines(data InvoiceData) []core.Component {
	lines := []core.Component{
		text.New("Bill To:", props.Text{Size: 12, Style: fontstyle.Bold}),
		text.New(data.BillToName, props.Text{Size: 10, Top: 6}),
	}
	offset := 10.0
	for _, value := range []string{data.BillToCompany, data.BillToEmail, data.BillToPhone, data.BillToAddress} {
		if value == "" {
			continue
		}
		lines = append(lines, text.New(value, props.Text{Size: 10, Top: offset}))
		offset += 4
	}
	return lines
}
