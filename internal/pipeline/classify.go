package pipeline

import (
	"strings"

	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/domain"
	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/harmonize"
)

// Harmonizer resolves the free-text parts of normalized rows against the
// curated entity and subtype mappings, using the source's cutoff.
type Harmonizer struct {
	desc     *SourceDescriptor
	entities harmonize.Mapping
	subtypes harmonize.Mapping
}

// NewHarmonizer creates a harmonizer bound to one source and the shared
// mapping tables.
func NewHarmonizer(desc *SourceDescriptor, entities, subtypes harmonize.Mapping) *Harmonizer {
	return &Harmonizer{desc: desc, entities: entities, subtypes: subtypes}
}

// Apply harmonizes every row, preserving order.
func (h *Harmonizer) Apply(rows []NormalizedRow) []HarmonizedRow {
	out := make([]HarmonizedRow, 0, len(rows))
	for _, row := range rows {
		hr := HarmonizedRow{NormalizedRow: row}
		hr.Entity = harmonize.Harmonize(row.EntityPart, h.entities, h.desc.FuzzyCutoff)
		if h.desc.DetailHarmonization {
			detail := row.DetailPart
			if detail == "" {
				detail = row.RawDescription
			}
			hr.Detail = harmonize.Harmonize(detail, h.subtypes, h.desc.FuzzyCutoff)
		}
		out = append(out, hr)
	}
	return out
}

// Classifier derives transaction type, subtype, the debit/credit flag and
// the boolean flags from a harmonized row. Flag derivation is a rule table
// built per source, so a new institution changes data, not code.
type Classifier struct {
	desc  *SourceDescriptor
	rules []flagRule
}

// flagRule sets one flag of the classified row when its predicate matches.
type flagRule struct {
	name  string
	match func(*ClassifiedRow) bool
	set   func(*ClassifiedRow)
}

// NewClassifier creates a classifier for one source. selfLabel is the
// account holder label whose harmonized entity marks internal transfers.
func NewClassifier(desc *SourceDescriptor, selfLabel string) *Classifier {
	c := &Classifier{desc: desc}
	c.rules = []flagRule{
		{
			name: "internal-transfer",
			match: func(r *ClassifiedRow) bool {
				return selfLabel != "" && r.Entity == selfLabel
			},
			set: func(r *ClassifiedRow) { r.InternalTransfer = true },
		},
		{
			name: "cancellation",
			match: func(r *ClassifiedRow) bool {
				for _, s := range desc.CancellationSubtypes {
					if r.Subtype == s {
						return true
					}
				}
				return false
			},
			set: func(r *ClassifiedRow) { r.Cancellation = true },
		},
		{
			name: "refund",
			match: func(r *ClassifiedRow) bool {
				if !desc.RefundDetection || r.Net().Sign() <= 0 {
					return false
				}
				upper := strings.ToUpper(r.RawDescription)
				for _, deny := range desc.RefundDenylist {
					if strings.Contains(upper, strings.ToUpper(deny)) {
						return false
					}
				}
				return true
			},
			set: func(r *ClassifiedRow) { r.Refund = true },
		},
	}
	return c
}

// Classify derives the classification for every row, preserving order.
func (c *Classifier) Classify(rows []HarmonizedRow) []ClassifiedRow {
	out := make([]ClassifiedRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, c.classifyRow(row))
	}
	return out
}

func (c *Classifier) classifyRow(row HarmonizedRow) ClassifiedRow {
	cr := ClassifiedRow{HarmonizedRow: row}

	outflow := row.Net().Sign() < 0
	if outflow {
		cr.Type = domain.TypeExpense
		cr.DebitCredit = c.desc.DebitCredit.Outflow
	} else {
		cr.Type = domain.TypeDeposit
		cr.DebitCredit = c.desc.DebitCredit.Inflow
	}

	if c.desc.DetailHarmonization {
		cr.Subtype = row.Detail
	} else {
		cr.Subtype = cr.Type
	}

	for _, rule := range c.rules {
		if rule.match(&cr) {
			rule.set(&cr)
		}
	}

	return cr
}
