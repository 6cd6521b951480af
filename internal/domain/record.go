package domain

import (
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Flag values used by the text-typed canonical schema.
const (
	FlagYes = "Yes"
	FlagNo  = "No"
)

// Transaction types derived from the polarity of the net amount.
const (
	TypeExpense = "Expense"
	TypeDeposit = "Deposit"
)

// Columns is the canonical schema, in emission order. Every source adapter
// emits exactly these 34 columns; the consolidator relies on positional
// equality, so the order here must never change without migrating every
// previously written file.
var Columns = []string{
	"ID_TRANSACTION",
	"COD_SOURCE_SYSTEM",
	"COD_ACCOUNT",
	"TXT_ACCOUNT",
	"DAT_TRANSACTION",
	"NUM_MONTH",
	"NUM_YEAR",
	"COD_ENTITY",
	"TXT_ENTITY",
	"COD_TRANSACTION_TYPE",
	"TXT_TRANSACTION_TYPE",
	"COD_TRANSACTION_SUBTYPE",
	"TXT_TRANSACTION_SUBTYPE",
	"TXT_DESCRIPTION",
	"NUM_AMT_NET_REPORTING",
	"NUM_AMT_DOCUMENT",
	"COD_CURRENCY_DOCUMENT",
	"NUM_EXCHANGE_RATE",
	"FLG_DEBIT_CREDIT",
	"COD_OPERATION_GROUP",
	"TXT_OPERATION_GROUP",
	"COD_OPERATION_SUBGROUP",
	"TXT_OPERATION_SUBGROUP",
	"NUM_INSTALLMENT",
	"NUM_INSTALLMENTS_TOTAL",
	"NUM_AMT_INSTALLMENT",
	"DAT_DUE",
	"FLG_DEFERRED",
	"COD_COUNTRY",
	"TXT_COUNTRY",
	"NUM_PURCHASE_DOCUMENT",
	"FLG_INTERNAL_TRANSFER",
	"FLG_CANCELLATION",
	"FLG_REFUND",
}

// CanonicalRecord is one transaction in the unified schema. Fields that do
// not apply to a source are explicit empty strings, never absent, so every
// adapter produces the same shape. A record is never mutated after assembly;
// downstream enrichment (entity codes, operation groups) happens in a
// separate pass outside this core.
type CanonicalRecord struct {
	ID           string
	SourceSystem string
	AccountCode  string
	AccountLabel string

	Date  civil.Date
	Month int
	Year  int

	EntityCode  string // reserved, filled downstream
	Entity      string
	TypeCode    string // reserved
	Type        string
	SubtypeCode string // reserved
	Subtype     string
	Description string

	AmountNet      decimal.Decimal // outflow negative, inflow positive
	AmountDocument decimal.Decimal
	Currency       string
	ExchangeRate   decimal.Decimal
	DebitCredit    string

	OperationGroupCode    string // manual, blank
	OperationGroupText    string
	OperationSubgroupCode string
	OperationSubgroupText string

	Installment       string // blank unless installment-bearing credit product
	InstallmentsTotal string
	InstallmentAmount string
	DueDate           string
	Deferred          string

	CountryCode      string
	CountryText      string
	PurchaseDocument string
	InternalTransfer string
	Cancellation     string
	Refund           string
}

// Row projects the record onto Columns order. len(Row()) == len(Columns)
// always holds; assemble tests pin this down.
func (r *CanonicalRecord) Row() []string {
	return []string{
		r.ID,
		r.SourceSystem,
		r.AccountCode,
		r.AccountLabel,
		r.Date.String(),
		strconv.Itoa(r.Month),
		strconv.Itoa(r.Year),
		r.EntityCode,
		r.Entity,
		r.TypeCode,
		r.Type,
		r.SubtypeCode,
		r.Subtype,
		r.Description,
		r.AmountNet.StringFixed(2),
		r.AmountDocument.StringFixed(2),
		r.Currency,
		r.ExchangeRate.StringFixed(4),
		r.DebitCredit,
		r.OperationGroupCode,
		r.OperationGroupText,
		r.OperationSubgroupCode,
		r.OperationSubgroupText,
		r.Installment,
		r.InstallmentsTotal,
		r.InstallmentAmount,
		r.DueDate,
		r.Deferred,
		r.CountryCode,
		r.CountryText,
		r.PurchaseDocument,
		r.InternalTransfer,
		r.Cancellation,
		r.Refund,
	}
}
