package importer

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

type comdirectRow struct {
	BookingDate time.Time       `col:"Buchungstag"`
	ValueDate   time.Time       `col:"Wertstellung (Valuta),optional"`
	Kind        string          `col:"Vorgang"`
	Text        string          `col:"Buchungstext"`
	Amount      decimal.Decimal `col:"Umsatz in EUR"`
}

// comdirect packs counterparty and purpose into one text:
// "Empfänger: NAME Kto/IBAN: DE.. BLZ/BIC: XXX Buchungstext: PURPOSE".
var (
	comdirectParty   = regexp.MustCompile(`(?:Auftraggeber|Empfänger):\s*(.*?)\s*(?:Kto/IBAN:|Buchungstext:|$)`)
	comdirectIBAN    = regexp.MustCompile(`Kto/IBAN:\s*(\S+)`)
	comdirectBIC     = regexp.MustCompile(`BLZ/BIC:\s*(\S+)`)
	comdirectPurpose = regexp.MustCompile(`Buchungstext:\s*(.*)$`)
)

var comdirect = newLayout(layout[comdirectRow]{
	name:     "comdirect",
	display:  "comdirect Girokonto",
	bank:     "comdirect",
	currency: "EUR",
	balance:  BalanceByBookingDate,
	caveat:   "comdirect exports carry no balance column; balances are counted from 0,00. Counterparty and purpose are split out of the booking text.",
	mapRow: func(r comdirectRow) model.Transaction {
		txn := model.Transaction{
			BookingDate: r.BookingDate,
			ValueDate:   orDate(r.ValueDate, r.BookingDate),
			Type:        r.Kind,
			Purpose:     strings.TrimSpace(r.Text),
			Amount:      r.Amount,
		}
		if m := comdirectParty.FindStringSubmatch(r.Text); m != nil {
			txn.ParticipantName = m[1]
		}
		if m := comdirectIBAN.FindStringSubmatch(r.Text); m != nil {
			txn.ParticipantIBAN = m[1]
		}
		if m := comdirectBIC.FindStringSubmatch(r.Text); m != nil {
			txn.ParticipantBIC = m[1]
		}
		if m := comdirectPurpose.FindStringSubmatch(r.Text); m != nil {
			txn.Purpose = strings.TrimSpace(m[1])
		}
		return txn
	},
})
