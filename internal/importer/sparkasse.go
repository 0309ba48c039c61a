package importer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

// sparkasseCAMTRow is the "CSV-CAMT" export of Sparkasse online banking.
type sparkasseCAMTRow struct {
	Account        string          `col:"Auftragskonto"`
	BookingDate    time.Time       `col:"Buchungstag"`
	ValueDate      time.Time       `col:"Valutadatum,optional"`
	Text           string          `col:"Buchungstext"`
	Purpose        string          `col:"Verwendungszweck"`
	CreditorID     string          `col:"Glaeubiger ID"`
	MandateRef     string          `col:"Mandatsreferenz"`
	EndToEndRef    string          `col:"Kundenreferenz (End-to-End)"`
	CollectorRef   string          `col:"Sammlerreferenz"`
	OriginalAmount string          `col:"Lastschrift Ursprungsbetrag"`
	ReturnFee      string          `col:"Auslagenersatz Ruecklastschrift"`
	Participant    string          `col:"Beguenstigter/Zahlungspflichtiger"`
	IBAN           string          `col:"Kontonummer/IBAN"`
	BIC            string          `col:"BIC (SWIFT-Code)"`
	Amount         decimal.Decimal `col:"Betrag"`
	Currency       string          `col:"Waehrung"`
	Info           string          `col:"Info"`
}

var sparkasseCAMT = newLayout(layout[sparkasseCAMTRow]{
	name:    "sparkasse-camt",
	display: "Sparkasse (CSV-CAMT)",
	bank:    "Sparkasse",
	balance: BalanceByBookingDate,
	caveat:  "Sparkasse exports carry no balance column; balances are counted from 0,00.",
	mapRow: func(r sparkasseCAMTRow) model.Transaction {
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
			AccountIBAN:     ownAccount(r.Account),
		}
	},
})

// sparkasseMT940Row is the older "CSV-MT940" export. Counterparties are given
// as Kontonummer and BLZ.
type sparkasseMT940Row struct {
	Account       string          `col:"Auftragskonto"`
	BookingDate   time.Time       `col:"Buchungstag"`
	ValueDate     time.Time       `col:"Valutadatum,optional"`
	Text          string          `col:"Buchungstext"`
	Purpose       string          `col:"Verwendungszweck"`
	Participant   string          `col:"Beguenstigter/Zahlungspflichtiger"`
	AccountNumber string          `col:"Kontonummer"`
	BLZ           string          `col:"BLZ"`
	Amount        decimal.Decimal `col:"Betrag"`
	Currency      string          `col:"Waehrung"`
	Info          string          `col:"Info"`
}

var sparkasseMT940 = newLayout(layout[sparkasseMT940Row]{
	name:    "sparkasse-mt940",
	display: "Sparkasse (CSV-MT940)",
	bank:    "Sparkasse",
	balance: BalanceByValueDate,
	caveat:  "MT940 exports carry no balance column; balances are counted from 0,00 in value-date order. Counterparties get a synthesized DE00 identifier from Kontonummer/BLZ.",
	mapRow: func(r sparkasseMT940Row) model.Transaction {
		return model.Transaction{
			BookingDate:     r.BookingDate,
			ValueDate:       orDate(r.ValueDate, r.BookingDate),
			ParticipantName: r.Participant,
			ParticipantIBAN: id.AccountIdentifier(r.AccountNumber, r.BLZ),
			Type:            r.Text,
			Purpose:         r.Purpose,
			Amount:          r.Amount,
			Currency:        r.Currency,
			AccountIBAN:     ownAccount(r.Account),
		}
	},
})

// ownAccount keeps an Auftragskonto that is an IBAN. A bare account number
// without BLZ can't be turned into an identifier; the caller's account IBAN
// is used then.
func ownAccount(s string) string {
	if id.IsIBAN(s) {
		return id.AccountIdentifier(s, "")
	}
	return ""
}
