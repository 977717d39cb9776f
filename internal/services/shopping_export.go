package services

import (
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/foxxcyber/holiday-menu/internal/models"
)

var csvHeader = []string{"Category", "Product", "Quantity", "Unit", "Estimated cost", "Purchased"}

// WriteShoppingListCSV renders a shopping list as CSV, one block per
// category followed by a total row
func WriteShoppingListCSV(w io.Writer, list *models.ShoppingListWithItems) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, group := range list.Categories {
		for _, item := range group.Items {
			record := []string{
				group.Category,
				item.IngredientName,
				FormatQuantity(item.QuantityNeeded),
				item.UnitLabel,
				formatCost(item.EstimatedCost),
				strconv.FormatBool(item.Purchased),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write item %d: %w", item.ID, err)
			}
		}
	}

	if err := writer.Write([]string{"", "Total", "", "", FormatMoney(list.TotalCost), ""}); err != nil {
		return fmt.Errorf("failed to write total: %w", err)
	}

	writer.Flush()
	return writer.Error()
}

// ShoppingListEmail builds the subject and bodies of a shopping list email
func ShoppingListEmail(list *models.ShoppingListWithItems) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Shopping list for %s", stripLineBreaks(list.EventName))

	var text strings.Builder
	text.WriteString(subject + "\n\n")
	text.WriteString(fmt.Sprintf("Guests: %d\n", list.NumberOfGuests))
	text.WriteString(fmt.Sprintf("Estimated total: %s (%s per guest)\n", FormatMoney(list.TotalCost), FormatMoney(list.PerGuestCost)))

	var rows strings.Builder
	for _, group := range list.Categories {
		text.WriteString("\n" + group.Category + "\n")
		rows.WriteString(`<tr><th colspan="3" class="category">` + html.EscapeString(group.Category) + `</th></tr>`)

		for _, item := range group.Items {
			quantity := FormatQuantity(item.QuantityNeeded) + " " + item.UnitLabel
			cost := formatCost(item.EstimatedCost)
			mark := "[ ]"
			if item.Purchased {
				mark = "[x]"
			}

			text.WriteString(fmt.Sprintf("%s %s: %s", mark, item.IngredientName, quantity))
			if cost != "" {
				text.WriteString(" ~" + cost)
			}
			text.WriteString("\n")

			rows.WriteString(`<tr><td>` + html.EscapeString(item.IngredientName) + `</td><td>` +
				html.EscapeString(quantity) + `</td><td>` + cost + `</td></tr>`)
		}
	}

	htmlBody = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #b91c1c 0%, #166534 100%); color: white; padding: 30px; text-align: center; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 30px; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 8px 8px; }
        table { width: 100%; border-collapse: collapse; }
        td { padding: 4px 0; border-bottom: 1px solid #e5e7eb; }
        .category { text-align: left; padding-top: 16px; color: #166534; }
        .footer { text-align: center; color: #6b7280; font-size: 12px; margin-top: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1 style="margin: 0;">` + html.EscapeString(list.EventName) + `</h1>
            <p style="margin: 10px 0 0;">Shopping list for ` + strconv.Itoa(list.NumberOfGuests) + ` guests</p>
        </div>
        <div class="content">
            <table>` + rows.String() + `</table>
            <p><strong>Estimated total:</strong> ` + FormatMoney(list.TotalCost) + ` (` + FormatMoney(list.PerGuestCost) + ` per guest)</p>
        </div>
        <div class="footer">
            <p>Sent from Holiday Menu</p>
        </div>
    </div>
</body>
</html>`

	return subject, htmlBody, text.String()
}

// FormatQuantity rounds to two decimals and drops trailing zeros
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(math.Round(q*100)/100, 'f', -1, 64)
}

// FormatMoney formats an amount with two decimals
func FormatMoney(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

func formatCost(cost *float64) string {
	if cost == nil {
		return ""
	}
	return FormatMoney(*cost)
}
