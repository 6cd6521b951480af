package pipeline

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Normalizer turns raw export rows into typed normalized rows for one
// source. It is a pure transformation: rows that cannot be normalized are
// excluded and logged, never fatal for the batch.
type Normalizer struct {
	desc *SourceDescriptor
	log  zerolog.Logger
}

// NewNormalizer creates a normalizer for one source descriptor.
func NewNormalizer(desc *SourceDescriptor, log zerolog.Logger) *Normalizer {
	return &Normalizer{desc: desc, log: log}
}

// Normalize processes one account/month of raw rows, preserving input order
// except for dropped rows.
func (n *Normalizer) Normalize(rows []RawRow) []NormalizedRow {
	out := make([]NormalizedRow, 0, len(rows))
	for i, raw := range rows {
		row, ok := n.normalizeRow(i, raw)
		if ok {
			out = append(out, row)
		}
	}
	return out
}

func (n *Normalizer) normalizeRow(index int, raw RawRow) (NormalizedRow, bool) {
	cols := n.desc.Columns
	dateCell := strings.TrimSpace(raw[cols.Date])
	descCell := strings.TrimSpace(raw[cols.Description])

	// Structural noise: exact equality only, fuzzy matching would be far
	// too eager here.
	for _, deny := range n.desc.RowDenylist {
		if dateCell == deny || descCell == deny {
			return NormalizedRow{}, false
		}
	}

	if dateCell == "" {
		n.log.Debug().Int("row", index).Msg("dropping row with missing date")
		return NormalizedRow{}, false
	}

	parsed, err := time.Parse(n.desc.DateLayout, dateCell)
	if err != nil {
		n.log.Warn().Int("row", index).Str("date", dateCell).
			Msg("dropping row with unparseable date")
		return NormalizedRow{}, false
	}

	// Duplicate-listing artifacts documented per source.
	for _, pattern := range n.desc.PatternDenylist {
		if strings.Contains(descCell, pattern) {
			n.log.Debug().Int("row", index).Str("pattern", pattern).
				Msg("dropping duplicate-listing row")
			return NormalizedRow{}, false
		}
	}

	charge, deposit, err := n.amounts(raw)
	if err != nil {
		n.log.Warn().Int("row", index).Err(err).Msg("dropping row with bad amount")
		return NormalizedRow{}, false
	}
	if !charge.IsZero() && !deposit.IsZero() {
		n.log.Warn().Int("row", index).
			Msg("dropping row with both charge and deposit set")
		return NormalizedRow{}, false
	}

	row := NormalizedRow{
		Date:           civil.DateOf(parsed),
		RawDescription: descCell,
		Charge:         charge,
		Deposit:        deposit,
	}
	row.EntityPart, row.DetailPart = splitDescription(descCell, n.desc.SplitDelimiter)

	return row, true
}

// amounts applies the source sign convention so outflows come out negative
// and inflows positive. Empty cells normalize to zero before arithmetic.
func (n *Normalizer) amounts(raw RawRow) (charge, deposit decimal.Decimal, err error) {
	cols := n.desc.Columns

	switch n.desc.Sign {
	case SignSplitInvert:
		c, err := parseAmount(raw[cols.Charge])
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("charge: %w", err)
		}
		d, err := parseAmount(raw[cols.Deposit])
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("deposit: %w", err)
		}
		return c.Abs().Neg(), d.Abs(), nil

	case SignSingleInvert:
		amt, err := parseAmount(raw[cols.Amount])
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("amount: %w", err)
		}
		// Charges reported positive: invert everything.
		amt = amt.Neg()
		if amt.Sign() < 0 {
			return amt, decimal.Zero, nil
		}
		return decimal.Zero, amt, nil

	case SignSingleSigned:
		amt, err := parseAmount(raw[cols.Amount])
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("amount: %w", err)
		}
		if amt.Sign() < 0 {
			return amt, decimal.Zero, nil
		}
		return decimal.Zero, amt, nil

	default:
		return decimal.Zero, decimal.Zero,
			fmt.Errorf("unknown sign convention %q", n.desc.Sign)
	}
}

// parseAmount strips currency symbols and thousands separators before
// numeric conversion. Empty and null-ish cells are zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}

	cleaner := strings.NewReplacer("$", "", ",", "", " ", "", "\u00a0", "")
	s = cleaner.Replace(s)

	// Negatives sometimes arrive parenthesized.
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	amt, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parseAmount: %q: %w", s, err)
	}
	return amt, nil
}

// splitDescription splits a combined description on the source delimiter
// into an entity part and a detail part, trimming surrounding whitespace.
// Without a delimiter (or when absent from the text) the whole description
// is the entity part.
func splitDescription(desc, delim string) (entity, detail string) {
	if delim == "" {
		return desc, ""
	}
	before, after, found := strings.Cut(desc, delim)
	if !found {
		return desc, ""
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}
