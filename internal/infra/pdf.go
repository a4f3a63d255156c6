package infra

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"farmacia/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// WriteComprobantePDF renders a receipt-sized PDF for v into w. v must have
// Cliente and Detalle.Producto loaded.
func WriteComprobantePDF(w io.Writer, v *model.Venta) error {
	// 80mm thermal roll; height grows with the number of lines.
	alto := 90.0 + float64(len(v.Detalle))*5
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 80, Ht: alto},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 6, "Farmacia", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("%s N° %s", v.TipoComp, v.NumeroDoc)), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, v.Fecha.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(1)

	if v.Cliente != nil {
		pdf.CellFormat(contentW, 4, tr("Cliente: "+v.Cliente.Nombres), "", 1, "L", false, 0, "")
		pdf.CellFormat(contentW, 4, "DNI: "+v.Cliente.DNI, "", 1, "L", false, 0, "")
	}
	if v.RUC != nil && *v.RUC != "" {
		razon := ""
		if v.RazonSocial != nil {
			razon = *v.RazonSocial
		}
		pdf.CellFormat(contentW, 4, tr("RUC: "+*v.RUC+" "+razon), "", 1, "L", false, 0, "")
	}
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Importe", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, d := range v.Detalle {
		nombre := fmt.Sprintf("Producto %d", d.ProductoID)
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		if r := []rune(nombre); len(r) > 26 {
			nombre = string(r[:25]) + "."
		}
		importe := d.Precio.Mul(decimal.NewFromInt(int64(d.Cantidad)))
		pdf.CellFormat(col1, 5, tr(nombre), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("%d", d.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, importe.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, v.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, tr("Pago: "+v.MetodoPago), "", 1, "L", false, 0, "")
	if v.MontoEfectivo.IsPositive() {
		pdf.CellFormat(col1+col2, 4, "Efectivo:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, v.MontoEfectivo.StringFixed(2), "", 1, "R", false, 0, "")
		pdf.CellFormat(col1+col2, 4, "Vuelto:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, v.MontoDevolucion.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

// ComprobantePDF returns the receipt as bytes.
func ComprobantePDF(v *model.Venta) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteComprobantePDF(&buf, v); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveComprobantePDF writes the receipt to storagePath/comprobante_{id}.pdf
// and returns the file path.
func SaveComprobantePDF(v *model.Venta, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	data, err := ComprobantePDF(v)
	if err != nil {
		return "", err
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("comprobante_%d.pdf", v.ID))
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
