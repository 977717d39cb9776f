package services

import (
	"bytes"
	"encoding/csv"
	"mime"
	"strings"
	"testing"

	"github.com/foxxcyber/holiday-menu/internal/models"
)

func sampleList() *models.ShoppingListWithItems {
	potato := models.ShoppingItem{
		ID: 1, IngredientName: "Potato", Category: "Vegetables",
		Unit: models.UnitGram, UnitLabel: "gram", QuantityNeeded: 3000,
		EstimatedCost: price(180), Dishes: []string{"Olivier"},
	}
	eggs := models.ShoppingItem{
		ID: 2, IngredientName: "Eggs <fresh>", Category: "Other",
		Unit: models.UnitPiece, UnitLabel: "pieces", QuantityNeeded: 12.5,
		Purchased: true,
	}

	return &models.ShoppingListWithItems{
		ShoppingList:   models.ShoppingList{ID: 7, EventID: 3, TotalCost: 180},
		EventName:      "New Year's Eve",
		NumberOfGuests: 10,
		PerGuestCost:   18,
		Items:          []models.ShoppingItem{eggs, potato},
		Categories: []models.ShoppingItemGroup{
			{Category: "Other", Items: []models.ShoppingItem{eggs}},
			{Category: "Vegetables", Items: []models.ShoppingItem{potato}},
		},
		PurchasedCount: 1,
	}
}

func TestWriteShoppingListCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteShoppingListCSV(&buf, sampleList()); err != nil {
		t.Fatalf("WriteShoppingListCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("records = %d, want header + 2 items + total", len(records))
	}
	if strings.Join(records[1], "|") != "Other|Eggs <fresh>|12.5|pieces||true" {
		t.Errorf("eggs row = %v", records[1])
	}
	if strings.Join(records[2], "|") != "Vegetables|Potato|3000|gram|180.00|false" {
		t.Errorf("potato row = %v", records[2])
	}
	if records[3][1] != "Total" || records[3][4] != "180.00" {
		t.Errorf("total row = %v", records[3])
	}
}

func TestShoppingListEmail(t *testing.T) {
	subject, htmlBody, textBody := ShoppingListEmail(sampleList())

	if subject != "Shopping list for New Year's Eve" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(textBody, "[x] Eggs <fresh>: 12.5 pieces") {
		t.Errorf("text body missing purchased eggs:\n%s", textBody)
	}
	if !strings.Contains(textBody, "[ ] Potato: 3000 gram ~180.00") {
		t.Errorf("text body missing potato:\n%s", textBody)
	}
	if !strings.Contains(textBody, "180.00 (18.00 per guest)") {
		t.Errorf("text body missing totals:\n%s", textBody)
	}
	if strings.Contains(htmlBody, "<fresh>") || !strings.Contains(htmlBody, "Eggs &lt;fresh&gt;") {
		t.Error("html body should escape ingredient names")
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3000, "3000"},
		{12.5, "12.5"},
		{0.333333, "0.33"},
		{2.0004, "2"},
	}
	for _, tt := range tests {
		if got := FormatQuantity(tt.in); got != tt.want {
			t.Errorf("FormatQuantity(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildMessage(t *testing.T) {
	msg := BuildMessage("Holiday Menu", "noreply@example.com", []string{"a@example.com"}, "Hi", "<p>hi</p>", "hi")

	for _, want := range []string{
		"From: Holiday Menu <noreply@example.com>\r\n",
		"To: a@example.com\r\n",
		"Subject: Hi\r\n",
		"Content-Type: text/plain",
		"Content-Type: text/html",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestShoppingListEmailHeaders(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		want      string
	}{
		{"line breaks in name", "Party\r\nBcc: victim@example.com", "Shopping list for Party Bcc: victim@example.com"},
		{"non-ascii name", "Новый год", "Shopping list for Новый год"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := sampleList()
			list.EventName = tt.eventName

			subject, htmlBody, textBody := ShoppingListEmail(list)
			msg := BuildMessage("Holiday Menu", "noreply@example.com", []string{"a@example.com"}, subject, htmlBody, textBody)

			header, _, _ := strings.Cut(msg, "\r\n\r\n")
			var subjectLine string
			for _, line := range strings.Split(header, "\r\n") {
				if strings.HasPrefix(line, "Bcc:") {
					t.Fatalf("injected header line %q", line)
				}
				if strings.HasPrefix(line, "Subject: ") {
					subjectLine = strings.TrimPrefix(line, "Subject: ")
				}
			}
			for _, r := range subjectLine {
				if r > 127 {
					t.Fatalf("subject %q is not ASCII", subjectLine)
				}
			}

			decoded, err := new(mime.WordDecoder).DecodeHeader(subjectLine)
			if err != nil {
				t.Fatalf("DecodeHeader() error = %v", err)
			}
			if decoded != tt.want {
				t.Errorf("subject = %q, want %q", decoded, tt.want)
			}
		})
	}
}

func TestExportKey(t *testing.T) {
	if got := ExportKey(3, "abc"); got != "events/3/shopping-list-abc.csv" {
		t.Errorf("ExportKey() = %q", got)
	}
}
