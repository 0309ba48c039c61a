package importer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// postbankRow splits amounts into Soll (debit) and Haben (credit) columns.
// Depending on the export version Soll values are written with or without a
// minus sign.
type postbankRow struct {
	BookingDate time.Time       `col:"Buchungstag"`
	ValueDate   time.Time       `col:"Wert,optional"`
	Kind        string          `col:"Umsatzart"`
	Participant string          `col:"Begünstigter / Auftraggeber"`
	Purpose     string          `col:"Verwendungszweck"`
	IBAN        string          `col:"IBAN / Kontonummer"`
	BIC         string          `col:"BIC"`
	Debit       decimal.Decimal `col:"Soll"`
	Credit      decimal.Decimal `col:"Haben"`
	Currency    string          `col:"Währung"`
}

var postbank = newLayout(layout[postbankRow]{
	name:    "postbank",
	display: "Postbank Girokonto",
	bank:    "Postbank",
	balance: BalanceByBookingDate,
	caveat:  "Postbank exports carry no balance column; balances are counted from 0,00.",
	mapRow: func(r postbankRow) model.Transaction {
		return model.Transaction{
			BookingDate:     r.BookingDate,
			ValueDate:       orDate(r.ValueDate, r.BookingDate),
			ParticipantName: r.Participant,
			ParticipantIBAN: r.IBAN,
			ParticipantBIC:  r.BIC,
			Type:            r.Kind,
			Purpose:         r.Purpose,
			Amount:          r.Credit.Abs().Sub(r.Debit.Abs()),
			Currency:        r.Currency,
		}
	},
})
