package pipeline

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Built-in descriptors for the covered institution feeds. All accounts are
// home-currency (MXN) so the exchange rate is fixed at 1.0; the document
// amount equals the reporting amount.
var builtinSources = []*SourceDescriptor{
	{
		SystemCode:   "BBVA_MX",
		AccountCode:  "BBVA_DEB",
		AccountLabel: "BBVA Cuenta de Débito",
		Currency:     "MXN",
		ExchangeRate: decimal.RequireFromString("1.0"),
		CountryCode:  "MX",
		CountryText:  "Mexico",
		FilePattern:  "bbva_debit_%04d_%02d.csv",
		HeaderSkip:   3,
		Columns: ColumnMap{
			Date:        "FECHA",
			Description: "DESCRIPCIÓN",
			Charge:      "CARGO",
			Deposit:     "ABONO",
			Balance:     "SALDO",
		},
		DateLayout: "02/01/2006",
		Sign:       SignSplitInvert,
		RowDenylist: []string{
			"BBVA MEXICO, S.A. DE C.V.",
			"TOTAL DE MOVIMIENTOS",
		},
		DetailHarmonization: true,
		FuzzyCutoff:         0.75,
		DebitCredit:         DebitCreditConvention{Outflow: "D", Inflow: "C"},
		RefundDetection:     true,
		RefundDenylist: []string{
			"PAGO TARJETA DE CREDITO",
			"SPEI RECIBIDO",
			"PAGO CUENTA DE TERCERO",
			"NOMINA",
		},
		CancellationSubtypes: []string{"Canceled Transfer"},
	},
	{
		SystemCode:   "BBVA_MX",
		AccountCode:  "BBVA_CRED",
		AccountLabel: "BBVA Tarjeta de Crédito",
		Currency:     "MXN",
		ExchangeRate: decimal.RequireFromString("1.0"),
		CountryCode:  "MX",
		CountryText:  "Mexico",
		FilePattern:  "bbva_credit_%04d_%02d.csv",
		HeaderSkip:   4,
		Columns: ColumnMap{
			Date:        "FECHA",
			Description: "DESCRIPCIÓN",
			Charge:      "CARGO",
			Deposit:     "ABONO",
		},
		DateLayout: "02/01/2006",
		Sign:       SignSplitInvert,
		RowDenylist: []string{
			"BBVA MEXICO, S.A. DE C.V.",
		},
		// The original deferral line re-lists on every statement until it
		// is paid off; only the monthly charge rows count. The balance
		// payment is already an expense on the debit feed.
		PatternDenylist: []string{
			"MONTO A DIFERIR",
			"GRACIAS POR SU PAGO",
		},
		DetailHarmonization: true,
		FuzzyCutoff:         0.75,
		DebitCredit:         DebitCreditConvention{Outflow: "C", Inflow: "D"},
		RefundDetection:     true,
		InstallmentBearing:  true,
		DeferredSubtypes:    []string{"Deferred Payment", "Monthly Payment"},
		DueDay:              20,
	},
	{
		SystemCode:   "AMEX_MX",
		AccountCode:  "AMEX",
		AccountLabel: "American Express",
		Currency:     "MXN",
		ExchangeRate: decimal.RequireFromString("1.0"),
		CountryCode:  "MX",
		CountryText:  "Mexico",
		FilePattern:  "amex_%04d_%02d.csv",
		HeaderSkip:   6,
		Columns: ColumnMap{
			Date:        "Fecha",
			Description: "Descripción",
			Amount:      "Importe",
		},
		DateLayout: "02/01/2006",
		Sign:       SignSingleInvert,
		RowDenylist: []string{
			"Fecha",
		},
		FuzzyCutoff: 0.80,
		DebitCredit: DebitCreditConvention{Outflow: "C", Inflow: "D"},
		// The Amex export has no counterpart detail; refunds cannot be
		// told apart from other credits.
		RefundDetection: false,
	},
	{
		SystemCode:   "HEY_MX",
		AccountCode:  "HEY",
		AccountLabel: "Hey Banco",
		Currency:     "MXN",
		ExchangeRate: decimal.RequireFromString("1.0"),
		CountryCode:  "MX",
		CountryText:  "Mexico",
		FilePattern:  "hey_%04d_%02d.csv",
		HeaderSkip:   2,
		Columns: ColumnMap{
			Date:        "Fecha",
			Description: "Concepto",
			Amount:      "Monto",
		},
		DateLayout:          "02/01/2006",
		Sign:                SignSingleSigned,
		SplitDelimiter:      ":",
		DetailHarmonization: true,
		FuzzyCutoff:         0.78,
		DebitCredit:         DebitCreditConvention{Outflow: "D", Inflow: "C"},
		RefundDetection:     true,
		RefundDenylist: []string{
			"TARJETA DE CREDITO",
			"Recepcion de cuenta",
		},
		CancellationSubtypes: []string{"Canceled Transfer"},
	},
}

// Sources returns the built-in source descriptor set.
func Sources() []*SourceDescriptor {
	return builtinSources
}

// SourceByCode looks a descriptor up by account code.
func SourceByCode(code string) (*SourceDescriptor, error) {
	for _, d := range builtinSources {
		if strings.EqualFold(d.AccountCode, code) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("SourceByCode: unknown source %q", code)
}
