package importer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

type ingRow struct {
	BookingDate time.Time       `col:"Buchung"`
	ValueDate   time.Time       `col:"Valuta,optional"`
	Participant string          `col:"Auftraggeber/Empfänger"`
	Text        string          `col:"Buchungstext"`
	Purpose     string          `col:"Verwendungszweck"`
	Balance     decimal.Decimal `col:"Saldo"`
	Amount      decimal.Decimal `col:"Betrag"`
	Currency    string          `col:"Währung"`
}

var ing = newLayout(layout[ingRow]{
	name:    "ing",
	display: "ING Girokonto",
	bank:    "ING",
	balance: BalanceNative,
	mapRow: func(r ingRow) model.Transaction {
		return model.Transaction{
			BookingDate:     r.BookingDate,
			ValueDate:       orDate(r.ValueDate, r.BookingDate),
			ParticipantName: r.Participant,
			Type:            r.Text,
			Purpose:         r.Purpose,
			Amount:          r.Amount,
			Currency:        r.Currency,
			Balance:         r.Balance,
		}
	},
})
