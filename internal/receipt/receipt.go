package receipt

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/vortexsales/pos-backend/pkg/enums"
)

const (
	width       = 30
	nameWidth   = 15
	labelWidth  = 20
	amountWidth = 9
)

var (
	banner = strings.Repeat("=", width)
	rule   = strings.Repeat("-", width)
)

// Item is one printed receipt row.
type Item struct {
	Quantity int
	Name     string
	Subtotal decimal.Decimal
}

// Receipt is the printable summary of a settled sale. It is derived state:
// rendering it has no effect on the catalog or the ledger.
type Receipt struct {
	Company  string
	TaxID    string
	IssuedAt time.Time
	Items    []Item
	Total    decimal.Decimal
	Method   enums.PaymentMethod
	Detail   string
}

// Render produces the fixed 30-column ticket text.
func (r Receipt) Render() string {
	var b strings.Builder

	b.WriteString("\n" + banner + "\n")
	b.WriteString(center(r.Company) + "\n")
	b.WriteString(center(r.TaxID) + "\n")
	b.WriteString("Fecha: " + r.IssuedAt.Format("02/01/2006 15:04") + "\n")
	b.WriteString(rule + "\n")
	b.WriteString(ljust("CANT  PRODUCTO", labelWidth) + " " + rjust("TOTAL", amountWidth) + "\n")
	b.WriteString(rule + "\n")

	for _, item := range r.Items {
		name := item.Name
		if utf8.RuneCountInString(name) > nameWidth {
			name = string([]rune(name)[:nameWidth]) + ".."
		}
		b.WriteString(fmt.Sprintf("%s  %s $%7.2f\n",
			ljust(fmt.Sprintf("%d", item.Quantity), 4),
			ljust(name, nameWidth),
			item.Subtotal.InexactFloat64(),
		))
	}

	b.WriteString(rule + "\n")
	b.WriteString(fmt.Sprintf("%s $%7.2f\n", ljust("TOTAL A PAGAR:", labelWidth), r.Total.InexactFloat64()))
	b.WriteString(fmt.Sprintf("%s %s\n", ljust("METODO:", labelWidth), rjust(r.Method.String(), amountWidth)))
	b.WriteString(ljust(r.Detail, labelWidth) + "\n")
	b.WriteString(banner + "\n")
	b.WriteString(center("¡GRACIAS POR SU COMPRA!") + "\n")
	b.WriteString(banner + "\n")

	return b.String()
}

// FileName derives the unique ticket file name from the issue timestamp.
func (r Receipt) FileName() string {
	return "ticket_" + r.IssuedAt.Format("2006_01_02_15_04_05") + ".txt"
}

func center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

func ljust(s string, w int) string {
	n := utf8.RuneCountInString(s)
	if n >= w {
		return s
	}
	return s + strings.Repeat(" ", w-n)
}

func rjust(s string, w int) string {
	n := utf8.RuneCountInString(s)
	if n >= w {
		return s
	}
	return strings.Repeat(" ", w-n) + s
}
