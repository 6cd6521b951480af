package harmonize

import (
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		// 2*M/T over longest matching blocks: "bcd" matches, 2*3/8.
		{"abcd", "bcde", 0.75},
		{"OXXO GDL 123", "OXXO GDL 123", 1.0},
		{"abc", "xyz", 0.0},
		{"", "", 1.0},
	}

	for _, tt := range tests {
		got := Ratio(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestHarmonize(t *testing.T) {
	mapping := Mapping{
		"OXXO GDL":                 "Oxxo",
		"SPEI RECIBIDO":            "3rd Party Transfer",
		"PAGO TARJETA DE CREDITO":  "Credit Card Payment",
		"RETIRO CAJERO AUTOMATICO": "Cash Withdrawal",
	}

	tests := []struct {
		name   string
		text   string
		cutoff float64
		want   string
	}{
		{
			name:   "exact key",
			text:   "SPEI RECIBIDO",
			cutoff: 0.80,
			want:   "3rd Party Transfer",
		},
		{
			name:   "close variant above cutoff",
			text:   "OXXO GDL 123",
			cutoff: 0.75,
			want:   "Oxxo",
		},
		{
			name:   "variant with suffix",
			text:   "SPEI RECIBIDOBANORTE",
			cutoff: 0.75,
			want:   "3rd Party Transfer",
		},
		{
			name:   "no key above cutoff passes through",
			text:   "COMPRA GASOLINERA PEMEX",
			cutoff: 0.80,
			want:   "COMPRA GASOLINERA PEMEX",
		},
		{
			name:   "strict cutoff rejects loose variant",
			text:   "OXXO GDL 123",
			cutoff: 0.95,
			want:   "OXXO GDL 123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Harmonize(tt.text, mapping, tt.cutoff)
			if got != tt.want {
				t.Errorf("Harmonize(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestHarmonizeDeterministic(t *testing.T) {
	mapping := Mapping{
		"SPEI ENVIADO NAFIN": "Investment",
		"SPEI ENVIADO GBM":   "Investment",
		"SPEI RECIBIDO":      "3rd Party Transfer",
	}

	first := Harmonize("SPEI ENVIADO STP", mapping, 0.75)
	for i := 0; i < 50; i++ {
		if got := Harmonize("SPEI ENVIADO STP", mapping, 0.75); got != first {
			t.Fatalf("run %d: Harmonize returned %q, first run returned %q", i, got, first)
		}
	}
}

func TestHarmonizeTieBreak(t *testing.T) {
	// "ab" scores 0.8 against both keys; the lexicographically smaller key
	// must win on every run.
	mapping := Mapping{
		"abd": "second",
		"abc": "first",
	}

	for i := 0; i < 50; i++ {
		if got := Harmonize("ab", mapping, 0.75); got != "first" {
			t.Fatalf("run %d: tie resolved to %q, want %q", i, got, "first")
		}
	}
}

func TestHarmonizeEmptyMapping(t *testing.T) {
	if got := Harmonize("anything", Mapping{}, 0.75); got != "anything" {
		t.Errorf("Harmonize with empty mapping = %q, want pass-through", got)
	}
}
