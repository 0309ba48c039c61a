package importer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

type commerzbankRow struct {
	BookingDate   time.Time       `col:"Buchungstag"`
	ValueDate     time.Time       `col:"Wertstellung,optional"`
	Kind          string          `col:"Umsatzart"`
	Text          string          `col:"Buchungstext"`
	Amount        decimal.Decimal `col:"Betrag"`
	Currency      string          `col:"Währung"`
	AccountNumber string          `col:"Auftraggeberkonto"`
	BLZ           string          `col:"Bankleitzahl Auftraggeberkonto"`
	IBAN          string          `col:"IBAN Auftraggeberkonto"`
	Category      string          `col:"Kategorie"`
}

var commerzbank = newLayout(layout[commerzbankRow]{
	name:    "commerzbank",
	display: "Commerzbank Girokonto",
	bank:    "Commerzbank",
	balance: BalanceByBookingDate,
	caveat:  "Commerzbank exports carry no balance and no counterparty column; balances are counted from 0,00 and the booking text is kept as purpose.",
	mapRow: func(r commerzbankRow) model.Transaction {
		return model.Transaction{
			BookingDate: r.BookingDate,
			ValueDate:   orDate(r.ValueDate, r.BookingDate),
			Type:        r.Kind,
			Purpose:     r.Text,
			Amount:      r.Amount,
			Currency:    r.Currency,
			AccountIBAN: id.AccountIdentifier(firstNonEmpty(r.IBAN, r.AccountNumber), r.BLZ),
		}
	},
})
