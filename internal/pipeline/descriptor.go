package pipeline

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SignConvention describes how a source export reports amounts. Whatever the
// raw convention, normalization always ends with outflows negative and
// inflows positive.
type SignConvention string

const (
	// SignSplitInvert: separate charge and deposit columns, both reported
	// positive; charges are inverted.
	SignSplitInvert SignConvention = "split-invert"

	// SignSingleInvert: one amount column with charges positive; the sign
	// is inverted.
	SignSingleInvert SignConvention = "single-invert"

	// SignSingleSigned: one net column already signed the unified way.
	SignSingleSigned SignConvention = "single-signed"
)

// ColumnMap names the export's columns of interest. Charge and Deposit apply
// to the split convention; Amount to the single-column conventions. Balance
// is carried through unused.
type ColumnMap struct {
	Date        string
	Description string
	Charge      string
	Deposit     string
	Amount      string
	Balance     string
}

// DebitCreditConvention fixes the flag letter per polarity. The letters are
// a source-family convention reproduced as-is; they are not derivable from
// the sign alone (the card family reports outflows as "C").
type DebitCreditConvention struct {
	Outflow string
	Inflow  string
}

// SourceDescriptor parameterizes the shared adapter for one
// institution/account feed. Adding an institution means adding a descriptor,
// not a code path.
type SourceDescriptor struct {
	SystemCode   string
	AccountCode  string
	AccountLabel string
	Currency     string
	ExchangeRate decimal.Decimal
	CountryCode  string
	CountryText  string

	// FilePattern names the monthly export inside the input directory;
	// it is formatted with (year, month).
	FilePattern string

	// HeaderSkip is the number of leading non-data rows before the header
	// row; every institution pads its export differently.
	HeaderSkip int

	Columns    ColumnMap
	DateLayout string
	Sign       SignConvention

	// RowDenylist drops structural noise by exact equality against the
	// date or description cell: bank letterhead, repeated subtotal lines.
	RowDenylist []string

	// PatternDenylist drops duplicate-listing artifacts by substring
	// match: installment purchases re-listed every month, a balance
	// payment echoed in another account's feed.
	PatternDenylist []string

	// SplitDelimiter optionally splits the description into an entity part
	// and a detail part.
	SplitDelimiter string

	// DetailHarmonization: the subtype comes from the harmonized detail
	// text. Sources without it use the transaction type as subtype.
	DetailHarmonization bool

	FuzzyCutoff float64
	DebitCredit DebitCreditConvention

	// RefundDetection: whether the source carries enough information to
	// tell refunds apart; when false every row reports "No".
	RefundDetection bool

	// RefundDenylist lists deposit descriptions that are never refunds
	// (bill payment transfers, payroll), matched by substring.
	RefundDenylist []string

	// CancellationSubtypes marks harmonized subtypes that represent a
	// returned/canceled transfer.
	CancellationSubtypes []string

	// InstallmentBearing: the source is a credit product with deferred
	// purchases; installment fields are derived instead of left blank.
	InstallmentBearing bool

	// DeferredSubtypes marks harmonized subtypes belonging to deferred
	// purchase plans.
	DeferredSubtypes []string

	// DueDay is the statement payment due day for installment-bearing
	// products; due dates land on this day of the following month.
	DueDay int
}

// InputFile returns the export file name for the period.
func (d *SourceDescriptor) InputFile(month, year int) string {
	return fmt.Sprintf(d.FilePattern, year, month)
}

// OutputFile returns the per-source canonical file name for the period.
func (d *SourceDescriptor) OutputFile(month, year int) string {
	return fmt.Sprintf("canonical_%s_%04d_%02d.csv", d.AccountCode, year, month)
}
