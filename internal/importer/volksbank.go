package importer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// volksbankRow is the export of Volksbanken/Raiffeisenbanken. It is the only
// common layout with a running balance and the bank's name per row.
type volksbankRow struct {
	AccountName string          `col:"Bezeichnung Auftragskonto"`
	AccountIBAN string          `col:"IBAN Auftragskonto"`
	AccountBIC  string          `col:"BIC Auftragskonto"`
	BankName    string          `col:"Bankname Auftragskonto"`
	BookingDate time.Time       `col:"Buchungstag"`
	ValueDate   time.Time       `col:"Valutadatum,optional"`
	Participant string          `col:"Name Zahlungsbeteiligter"`
	IBAN        string          `col:"IBAN Zahlungsbeteiligter"`
	BIC         string          `col:"BIC (SWIFT-Code) Zahlungsbeteiligter"`
	Text        string          `col:"Buchungstext"`
	Purpose     string          `col:"Verwendungszweck"`
	Amount      decimal.Decimal `col:"Betrag"`
	Currency    string          `col:"Waehrung"`
	Balance     decimal.Decimal `col:"Saldo nach Buchung"`
	Note        string          `col:"Bemerkung"`
	Category    string          `col:"Kategorie"`
	TaxRelevant string          `col:"Steuerrelevant"`
	CreditorID  string          `col:"Glaeubiger ID"`
	MandateRef  string          `col:"Mandatsreferenz"`
}

var volksbank = newLayout(layout[volksbankRow]{
	name:    "volksbank",
	display: "Volksbank / Raiffeisenbank",
	bank:    "Volksbank",
	balance: BalanceNative,
	mapRow: func(r volksbankRow) model.Transaction {
		return model.Transaction{
			BookingDate:     r.BookingDate,
			ValueDate:       orDate(r.ValueDate, r.BookingDate),
			ParticipantName: r.Participant,
			ParticipantIBAN: r.IBAN,
			ParticipantBIC:  r.BIC,
			Type:            r.Text,
			Purpose:         r.Purpose,
			Amount:          r.Amount,
			Currency:        r.Currency,
			Balance:         r.Balance,
			AccountIBAN:     ownAccount(r.AccountIBAN),
		}
	},
	bankFrom: func(rows []volksbankRow) string {
		for _, r := range rows {
			if r.BankName != "" {
				return r.BankName
			}
		}
		return ""
	},
})
