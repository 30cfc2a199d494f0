package pipeline

import (
	"math"
	"testing"
)

func TestTokenizeProductRows(t *testing.T) {
	tokens := Tokens("1234567890 12 WIDGET A 1,000.00 900.00 950.00 50.00 5.00% 3.00")

	rows := TokenizeProductRows(tokens)
	if len(rows) != 1 {
		t.Fatalf("len=%d", len(rows))
	}
	row := rows[0]
	if row.Code != "1234567890" {
		t.Fatalf("code=%s", row.Code)
	}
	if row.QuantitySold != 12 {
		t.Fatalf("quantity=%v", row.QuantitySold)
	}
	if row.Description != "WIDGET A" {
		t.Fatalf("description=%q", row.Description)
	}
	if row.Stock != 3 {
		t.Fatalf("stock=%v", row.Stock)
	}
}

func TestTokenizeProductRowsFalseAnchor(t *testing.T) {
	// Code-shaped token with too few numerics behind it: no row, and the
	// scan must keep going past it.
	tokens := Tokens("9999999999 lote vencido sin datos numericos 1.00 2.00 3.00 fin")
	if rows := TokenizeProductRows(tokens); len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestTokenizeProductRowsShortInput(t *testing.T) {
	// Under the lookahead margin nothing is scanned at all.
	tokens := Tokens("1234567890 12 X 1.00 2.00 3.00 4.00 5.00")
	if rows := TokenizeProductRows(tokens); len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestTokenizeProductRowsNaNQuantity(t *testing.T) {
	tokens := Tokens("1234567890 N/A WIDGET B 1.00 2.00 3.00 4.00 5.00 6.00 7.00")

	rows := TokenizeProductRows(tokens)
	if len(rows) != 1 {
		t.Fatalf("len=%d", len(rows))
	}
	if !math.IsNaN(rows[0].QuantitySold) {
		t.Fatalf("quantity=%v want NaN", rows[0].QuantitySold)
	}
	if rows[0].Description != "WIDGET B" {
		t.Fatalf("description=%q", rows[0].Description)
	}
	if rows[0].Stock != 7 {
		t.Fatalf("stock=%v", rows[0].Stock)
	}
}

func TestTokenizeSalesReport(t *testing.T) {
	text := "FARMACIA SAN JOSE reporte de ventas " +
		"779123456789 10.00 AMOXICILINA 500MG CAPSULAS 1,250.00 1,500.00 1,600.00 350.00 23.33 % 12.00 " +
		"779987654321 2.50 IBUPROFENO 400MG 80.00 120.00 130.00 40.00 50.00 % 3.00"

	rows := TokenizeSalesReport(text)
	if len(rows) != 2 {
		t.Fatalf("len=%d", len(rows))
	}
	if rows[0].Description != "AMOXICILINA 500MG CAPSULAS" {
		t.Fatalf("description=%q", rows[0].Description)
	}
	if rows[0].QuantitySold != 10 {
		t.Fatalf("quantity=%v", rows[0].QuantitySold)
	}
	if rows[0].Numbers[1] != 1250 {
		t.Fatalf("cost=%v", rows[0].Numbers[1])
	}
	if rows[0].Stock != 12 {
		t.Fatalf("stock=%v", rows[0].Stock)
	}
	if rows[1].Stock != 3 {
		t.Fatalf("stock=%v", rows[1].Stock)
	}
}

func TestTokenizeSalesReportLayoutMismatch(t *testing.T) {
	if rows := TokenizeSalesReport("columnas en otro orden 12.00 producto 779123456789"); len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestSalesFromPDFTextAnchorFallback(t *testing.T) {
	// Not in strict report shape, so the anchor dialect recovers it.
	text := "1234567890 12 IBUPROFENO 400MG 1,000.00 900.00 950.00 50.00 5.00% 2.00"
	sales := SalesFromPDFText(text)
	if len(sales) != 1 {
		t.Fatalf("len=%d", len(sales))
	}
	if sales[0].Product != "ibuprofeno 400mg" {
		t.Fatalf("product=%q", sales[0].Product)
	}
	if sales[0].Stock != 2 {
		t.Fatalf("stock=%v", sales[0].Stock)
	}
}
