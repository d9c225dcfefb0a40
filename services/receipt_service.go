package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"
	"github.com/yeremiapane/paint-queue/models"
)

const receiptTimeLayout = "02-01-2006 15:04"

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"stamp": func(r models.Receipt) string { return r.EstimatedCompletion.Format(receiptTimeLayout) },
	"start": func(r models.Receipt) string { return r.StartTime.Format(receiptTimeLayout) },
}).Parse(`<html>
<head>
    <title>Order Receipt</title>
    <style>
        body { font-size: 10px; }
        h2 { font-size: 12px; font-weight: bold; }
        p { margin: 2px 0; }
    </style>
</head>
<body onload="window.print()">
    <h2>{{.Title}}</h2>
    <p><strong>Order No:</strong> #{{.OrderNo}}</p>
    <p><strong>Client Name:</strong> {{.ClientName}}</p>
    <p><strong>Contact:</strong> {{.Contact}}</p>
    <p><strong>Paint Colour:</strong> {{.PaintColour}}</p>
    <p><strong>Category:</strong> {{.Category}}</p>
    {{if .ColourCode}}<p><strong>Colour Code:</strong> {{.ColourCode}}</p>{{end}}
    {{if .PaintQuantity}}<p><strong>Quantity:</strong> {{.PaintQuantity}}</p>{{end}}
    <p><strong>Received:</strong> {{start .}}</p>
    <p><strong>ETC:</strong> {{stamp .}}</p>
    <p><strong>TrackID:</strong> {{.TrackID}}</p>
    {{if .SupportPhone}}<p><strong>WhatsApp Support:</strong> {{.SupportPhone}}</p>{{end}}
</body>
</html>
`))

// RenderReceiptHTML produces the print page opened after an order is added.
func RenderReceiptHTML(r models.Receipt) ([]byte, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("error rendering receipt: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderReceiptPDF lays the receipt out on an 80mm till roll with a QR code
// of the track id.
func RenderReceiptPDF(r models.Receipt) ([]byte, error) {
	pdf, err := buildReceiptPDF(r)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error writing receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func buildReceiptPDF(r models.Receipt) (*fpdf.Fpdf, error) {
	const width = 80.0
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "mm",
		Size:    fpdf.SizeType{Wd: width, Ht: 150},
	})
	pdf.SetMargins(5, 5, 5)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	// Core fonts are cp1252; customer text arrives as UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	inner := width - 10
	pdf.SetFont("Arial", "B", 10)
	pdf.MultiCell(inner, 5, tr(r.Title), "", "C", false)
	if r.ShopName != "" {
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(inner, 4, tr(r.ShopName), "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)

	lines := [][2]string{
		{"Order No", "#" + r.OrderNo},
		{"Client Name", r.ClientName},
		{"Contact", r.Contact},
		{"Paint Colour", r.PaintColour},
		{"Category", string(r.Category)},
		{"Colour Code", r.ColourCode},
		{"Quantity", r.PaintQuantity},
		{"Received", r.StartTime.Format(receiptTimeLayout)},
		{"ETC", r.EstimatedCompletion.Format(receiptTimeLayout)},
		{"TrackID", r.TrackID},
	}
	for _, l := range lines {
		if l[1] == "" {
			continue
		}
		pdf.SetFont("Arial", "B", 8)
		pdf.CellFormat(25, 4.5, tr(l[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(inner-25, 4.5, tr(l[1]), "", 1, "L", false, 0, "")
	}

	png, err := qrcode.Encode(r.TrackID, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("error encoding track qr: %w", err)
	}
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("track", opts, bytes.NewReader(png))
	qrSize := 30.0
	pdf.ImageOptions("track", (width-qrSize)/2, pdf.GetY()+3, qrSize, qrSize, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + qrSize + 5)

	if r.SupportPhone != "" {
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(inner, 4, tr("WhatsApp Support: "+r.SupportPhone), "", 1, "C", false, 0, "")
	}

	return pdf, pdf.Error()
}
