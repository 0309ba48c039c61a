package importer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

type consorsbankRow struct {
	BookingDate time.Time       `col:"Buchung"`
	ValueDate   time.Time       `col:"Valuta,optional"`
	Participant string          `col:"Sender / Empfänger"`
	IBAN        string          `col:"IBAN / Konto-Nr."`
	BIC         string          `col:"BIC / BLZ"`
	Text        string          `col:"Buchungstext"`
	Purpose     string          `col:"Verwendungszweck"`
	Category    string          `col:"Kategorie"`
	Keywords    string          `col:"Stichwörter"`
	Split       string          `col:"Umsatz geteilt"`
	Amount      decimal.Decimal `col:"Betrag in EUR"`
}

var consorsbank = newLayout(layout[consorsbankRow]{
	name:     "consorsbank",
	display:  "Consorsbank Girokonto",
	bank:     "Consorsbank",
	currency: "EUR",
	balance:  BalanceByBookingDate,
	caveat:   "Consorsbank exports carry no balance column; balances are counted from 0,00. The bank's own categories are not imported.",
	mapRow: func(r consorsbankRow) model.Transaction {
		txn := model.Transaction{
			BookingDate:     r.BookingDate,
			ValueDate:       orDate(r.ValueDate, r.BookingDate),
			ParticipantName: r.Participant,
			Type:            r.Text,
			Purpose:         r.Purpose,
			Amount:          r.Amount,
		}
		if isDigits(r.BIC) {
			txn.ParticipantIBAN = id.AccountIdentifier(r.IBAN, r.BIC)
		} else {
			txn.ParticipantIBAN = id.AccountIdentifier(r.IBAN, "")
			txn.ParticipantBIC = r.BIC
		}
		return txn
	},
})
