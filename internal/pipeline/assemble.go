package pipeline

import (
	"regexp"
	"time"

	"cloud.google.com/go/civil"

	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/domain"
)

// installmentRe matches the "03 DE 06" fragment card statements append to
// deferred purchases.
var installmentRe = regexp.MustCompile(`(\d{1,2}) DE (\d{1,2})`)

// Assembler maps classified rows plus the source's static constants onto the
// canonical schema. Every field is populated; fields that do not apply to
// the source are explicit empty strings so consolidation stays a pure union.
type Assembler struct {
	desc *SourceDescriptor
}

// NewAssembler creates an assembler for one source descriptor.
func NewAssembler(desc *SourceDescriptor) *Assembler {
	return &Assembler{desc: desc}
}

// Assemble builds the canonical records, preserving order. The identity key
// is left blank; the hasher fills it afterwards.
func (a *Assembler) Assemble(rows []ClassifiedRow) []domain.CanonicalRecord {
	out := make([]domain.CanonicalRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, a.assembleRow(row))
	}
	return out
}

func (a *Assembler) assembleRow(row ClassifiedRow) domain.CanonicalRecord {
	d := a.desc
	net := row.Net()

	rec := domain.CanonicalRecord{
		SourceSystem: d.SystemCode,
		AccountCode:  d.AccountCode,
		AccountLabel: d.AccountLabel,

		Date:  row.Date,
		Month: int(row.Date.Month),
		Year:  row.Date.Year,

		Entity:      row.Entity,
		Type:        row.Type,
		Subtype:     row.Subtype,
		Description: row.RawDescription,

		AmountNet:      net,
		AmountDocument: net,
		Currency:       d.Currency,
		ExchangeRate:   d.ExchangeRate,
		DebitCredit:    row.DebitCredit,

		CountryCode: d.CountryCode,
		CountryText: d.CountryText,

		Deferred:         domain.FlagNo,
		InternalTransfer: flag(row.InternalTransfer),
		Cancellation:     flag(row.Cancellation),
		Refund:           flag(row.Refund),
	}

	if d.InstallmentBearing {
		a.fillInstallments(&rec, row)
	}

	return rec
}

// fillInstallments derives the installment fields for deferred purchases on
// installment-bearing credit products. Other rows of the same source keep
// the blanks.
func (a *Assembler) fillInstallments(rec *domain.CanonicalRecord, row ClassifiedRow) {
	deferred := false
	for _, s := range a.desc.DeferredSubtypes {
		if row.Subtype == s {
			deferred = true
			break
		}
	}
	if !deferred {
		return
	}
	rec.Deferred = domain.FlagYes

	if m := installmentRe.FindStringSubmatch(row.RawDescription); m != nil {
		rec.Installment = m[1]
		rec.InstallmentsTotal = m[2]
	}
	rec.InstallmentAmount = row.Net().Abs().StringFixed(2)

	if a.desc.DueDay > 0 {
		// Statement due day of the following month; time.Date handles the
		// year rollover.
		due := time.Date(row.Date.Year, time.Month(row.Date.Month)+1,
			a.desc.DueDay, 0, 0, 0, 0, time.UTC)
		rec.DueDate = civil.DateOf(due).String()
	}
}

func flag(b bool) string {
	if b {
		return domain.FlagYes
	}
	return domain.FlagNo
}
