package pipeline

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func mustSource(t *testing.T, code string) *SourceDescriptor {
	t.Helper()
	desc, err := SourceByCode(code)
	if err != nil {
		t.Fatalf("SourceByCode(%q): %v", code, err)
	}
	return desc
}

func TestNormalizeChargeRow(t *testing.T) {
	n := NewNormalizer(mustSource(t, "BBVA_DEB"), zerolog.Nop())

	rows := n.Normalize([]RawRow{{
		"FECHA":       "05/01/2024",
		"DESCRIPCIÓN": "OXXO GDL 123",
		"CARGO":       "150.00",
		"ABONO":       "",
	}})

	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]

	if want := (civil.Date{Year: 2024, Month: 1, Day: 5}); row.Date != want {
		t.Errorf("date = %v, want %v", row.Date, want)
	}
	if !row.Charge.Equal(decimal.RequireFromString("-150.00")) {
		t.Errorf("charge = %v, want -150.00", row.Charge)
	}
	if !row.Deposit.IsZero() {
		t.Errorf("deposit = %v, want 0", row.Deposit)
	}
	if !row.Net().Equal(decimal.RequireFromString("-150.00")) {
		t.Errorf("net = %v, want -150.00", row.Net())
	}
}

func TestNormalizeDropsStructuralNoise(t *testing.T) {
	n := NewNormalizer(mustSource(t, "BBVA_DEB"), zerolog.Nop())

	tests := []struct {
		name string
		row  RawRow
	}{
		{
			name: "letterhead sentinel in date cell",
			row:  RawRow{"FECHA": "BBVA MEXICO, S.A. DE C.V.", "DESCRIPCIÓN": "", "CARGO": "", "ABONO": ""},
		},
		{
			name: "subtotal repeat",
			row:  RawRow{"FECHA": "TOTAL DE MOVIMIENTOS", "DESCRIPCIÓN": "", "CARGO": "", "ABONO": ""},
		},
		{
			name: "missing date",
			row:  RawRow{"FECHA": "", "DESCRIPCIÓN": "OXXO GDL 123", "CARGO": "150.00", "ABONO": ""},
		},
		{
			name: "unparseable date",
			row:  RawRow{"FECHA": "99/99/2024", "DESCRIPCIÓN": "OXXO GDL 123", "CARGO": "150.00", "ABONO": ""},
		},
		{
			name: "both amounts set",
			row:  RawRow{"FECHA": "05/01/2024", "DESCRIPCIÓN": "X", "CARGO": "10.00", "ABONO": "20.00"},
		},
		{
			name: "unparseable amount",
			row:  RawRow{"FECHA": "05/01/2024", "DESCRIPCIÓN": "X", "CARGO": "abc", "ABONO": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize([]RawRow{tt.row}); len(got) != 0 {
				t.Errorf("row survived normalization: %+v", got)
			}
		})
	}
}

func TestNormalizeDuplicateListingArtifacts(t *testing.T) {
	n := NewNormalizer(mustSource(t, "BBVA_CRED"), zerolog.Nop())

	rows := n.Normalize([]RawRow{
		{"FECHA": "03/01/2024", "DESCRIPCIÓN": "MONTO A DIFERIR MESES EN AUTOMATICO", "CARGO": "3600.00", "ABONO": ""},
		{"FECHA": "04/01/2024", "DESCRIPCIÓN": "GRACIAS POR SU PAGO CON CARGO A BBVA", "CARGO": "", "ABONO": "5000.00"},
		{"FECHA": "05/01/2024", "DESCRIPCIÓN": "MESES EN AUTOMATICO NACIONAL LIVERPOOL 03 DE 06", "CARGO": "600.00", "ABONO": ""},
	})

	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 (re-listed deferral and payment echo dropped)", len(rows))
	}
	if rows[0].Date.Day != 5 {
		t.Errorf("surviving row date = %v", rows[0].Date)
	}
}

func TestNormalizeThousandsSeparatorsAndCurrency(t *testing.T) {
	n := NewNormalizer(mustSource(t, "BBVA_DEB"), zerolog.Nop())

	rows := n.Normalize([]RawRow{{
		"FECHA":       "12/01/2024",
		"DESCRIPCIÓN": "TRANSFERENCIA",
		"CARGO":       "",
		"ABONO":       "$12,345.67",
	}})

	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if !rows[0].Deposit.Equal(decimal.RequireFromString("12345.67")) {
		t.Errorf("deposit = %v, want 12345.67", rows[0].Deposit)
	}
}

func TestNormalizeSingleInvert(t *testing.T) {
	n := NewNormalizer(mustSource(t, "AMEX"), zerolog.Nop())

	rows := n.Normalize([]RawRow{
		{"Fecha": "10/01/2024", "Descripción": "RESTAURANTE PUJOL", "Importe": "320.50"},
		{"Fecha": "11/01/2024", "Descripción": "DEVOLUCION", "Importe": "-100.00"},
	})

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if !rows[0].Charge.Equal(decimal.RequireFromString("-320.50")) {
		t.Errorf("charge = %v, want -320.50 (positive charges invert)", rows[0].Charge)
	}
	if !rows[1].Deposit.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("deposit = %v, want 100.00", rows[1].Deposit)
	}
}

func TestNormalizeSingleSignedAndSplit(t *testing.T) {
	n := NewNormalizer(mustSource(t, "HEY"), zerolog.Nop())

	rows := n.Normalize([]RawRow{
		{"Fecha": "08/01/2024", "Concepto": "Pago servicio: TARJETA DE CREDITO B", "Monto": "-1500.00"},
		{"Fecha": "09/01/2024", "Concepto": "Recepcion de cuenta", "Monto": "2000.00"},
	})

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	// Already signed: no inversion.
	if !rows[0].Charge.Equal(decimal.RequireFromString("-1500.00")) {
		t.Errorf("charge = %v, want -1500.00", rows[0].Charge)
	}
	if rows[0].EntityPart != "Pago servicio" || rows[0].DetailPart != "TARJETA DE CREDITO B" {
		t.Errorf("split = (%q, %q)", rows[0].EntityPart, rows[0].DetailPart)
	}

	// No delimiter in text: whole description is the entity part.
	if rows[1].EntityPart != "Recepcion de cuenta" || rows[1].DetailPart != "" {
		t.Errorf("split = (%q, %q)", rows[1].EntityPart, rows[1].DetailPart)
	}
}

func TestNormalizePreservesOrder(t *testing.T) {
	n := NewNormalizer(mustSource(t, "BBVA_DEB"), zerolog.Nop())

	rows := n.Normalize([]RawRow{
		{"FECHA": "03/01/2024", "DESCRIPCIÓN": "A", "CARGO": "1.00", "ABONO": ""},
		{"FECHA": "not-a-date", "DESCRIPCIÓN": "B", "CARGO": "2.00", "ABONO": ""},
		{"FECHA": "01/01/2024", "DESCRIPCIÓN": "C", "CARGO": "3.00", "ABONO": ""},
	})

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].RawDescription != "A" || rows[1].RawDescription != "C" {
		t.Errorf("order not preserved: %q, %q", rows[0].RawDescription, rows[1].RawDescription)
	}
}

// Amounts are never both nonzero after normalization, whatever the source
// convention.
func TestNormalizeAmountInvariant(t *testing.T) {
	for _, desc := range Sources() {
		n := NewNormalizer(desc, zerolog.Nop())
		cols := desc.Columns

		raw := RawRow{cols.Date: "15/01/2024", cols.Description: "INVARIANT CHECK"}
		if desc.Sign == SignSplitInvert {
			raw[cols.Charge] = "100.00"
		} else {
			raw[cols.Amount] = "100.00"
		}

		for _, row := range n.Normalize([]RawRow{raw}) {
			if !row.Charge.IsZero() && !row.Deposit.IsZero() {
				t.Errorf("%s: charge %v and deposit %v both nonzero",
					desc.AccountCode, row.Charge, row.Deposit)
			}
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"-", "0"},
		{"150.00", "150"},
		{"$1,234.56", "1234.56"},
		{"(45.00)", "-45"},
		{"  -99.10 ", "-99.1"},
	}

	for _, tt := range tests {
		got, err := parseAmount(tt.in)
		if err != nil {
			t.Errorf("parseAmount(%q) failed: %v", tt.in, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("parseAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := parseAmount("12x.00"); err == nil {
		t.Error("parseAmount accepted garbage")
	}
}
