package pipeline

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// RawRow is one data row of an institution export, keyed by the source's
// column names. It exists only inside a single adapter invocation.
type RawRow map[string]string

// NormalizedRow is the adapter output consumed by the harmonizer and the
// classifier. Amounts carry the unified sign convention: Charge is zero or
// negative (outflow), Deposit is zero or positive (inflow), and the two are
// never both nonzero for a single-currency account.
type NormalizedRow struct {
	Date           civil.Date
	RawDescription string
	Charge         decimal.Decimal
	Deposit        decimal.Decimal

	// Optional split of RawDescription on the source's delimiter. When the
	// source has no delimiter EntityPart holds the whole trimmed
	// description and DetailPart is empty.
	EntityPart string
	DetailPart string
}

// Net is the single signed amount in the unified sense: outflow negative,
// inflow positive.
func (r *NormalizedRow) Net() decimal.Decimal {
	return r.Charge.Add(r.Deposit)
}

// HarmonizedRow is a normalized row with its free text resolved against the
// curated mappings.
type HarmonizedRow struct {
	NormalizedRow

	// Entity is the canonical entity name, or the raw entity part when no
	// mapping key scored above the source cutoff.
	Entity string

	// Detail is the harmonized detail text for sources with a detail
	// harmonization step, empty otherwise.
	Detail string
}

// ClassifiedRow carries everything the assembler needs for one transaction.
type ClassifiedRow struct {
	HarmonizedRow

	Type        string
	Subtype     string
	DebitCredit string

	InternalTransfer bool
	Cancellation     bool
	Refund           bool
}
