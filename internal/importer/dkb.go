package importer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

// dkbGiroRow is the DKB checking account export since the 2023 banking
// platform switch.
type dkbGiroRow struct {
	BookingDate time.Time       `col:"Buchungsdatum"`
	ValueDate   time.Time       `col:"Wertstellung,optional"`
	Status      string          `col:"Status"`
	Payer       string          `col:"Zahlungspflichtige*r"`
	Payee       string          `col:"Zahlungsempfänger*in"`
	Purpose     string          `col:"Verwendungszweck"`
	Type        string          `col:"Umsatztyp"`
	IBAN        string          `col:"IBAN"`
	Amount      decimal.Decimal `col:"Betrag (€)"`
	CreditorID  string          `col:"Gläubiger-ID"`
	MandateRef  string          `col:"Mandatsreferenz"`
	CustomerRef string          `col:"Kundenreferenz"`
}

var dkbGiro = newLayout(layout[dkbGiroRow]{
	name:     "dkb-giro",
	display:  "DKB Girokonto",
	bank:     "DKB",
	currency: "EUR",
	balance:  BalanceByBookingDate,
	caveat:   "DKB exports carry no balance column; balances are counted from 0,00 at the first exported booking.",
	mapRow: func(r dkbGiroRow) model.Transaction {
		// Both parties are listed; the counterparty is the one that isn't us.
		participant := r.Payer
		if r.Amount.IsNegative() || r.Type == "Ausgang" {
			participant = r.Payee
		}
		return model.Transaction{
			BookingDate:     r.BookingDate,
			ValueDate:       orDate(r.ValueDate, r.BookingDate),
			ParticipantName: participant,
			ParticipantIBAN: r.IBAN,
			Type:            r.Type,
			Purpose:         r.Purpose,
			Amount:          r.Amount,
		}
	},
})

// dkbGiroLegacyRow is the DKB checking export before 2023.
type dkbGiroLegacyRow struct {
	BookingDate   time.Time       `col:"Buchungstag"`
	ValueDate     time.Time       `col:"Wertstellung,optional"`
	Text          string          `col:"Buchungstext"`
	Participant   string          `col:"Auftraggeber / Begünstigter"`
	Purpose       string          `col:"Verwendungszweck"`
	AccountNumber string          `col:"Kontonummer"`
	BLZ           string          `col:"BLZ"`
	Amount        decimal.Decimal `col:"Betrag (EUR)"`
	CreditorID    string          `col:"Gläubiger-ID"`
	MandateRef    string          `col:"Mandatsreferenz"`
	CustomerRef   string          `col:"Kundenreferenz"`
}

var dkbGiroLegacy = newLayout(layout[dkbGiroLegacyRow]{
	name:     "dkb-giro-legacy",
	display:  "DKB Girokonto (vor 2023)",
	bank:     "DKB",
	currency: "EUR",
	balance:  BalanceByBookingDate,
	caveat:   "Old DKB exports carry no balance column; balances are counted from 0,00. Counterparties given only by Kontonummer/BLZ get a synthesized DE00 identifier.",
	mapRow: func(r dkbGiroLegacyRow) model.Transaction {
		txn := model.Transaction{
			BookingDate:     r.BookingDate,
			ValueDate:       orDate(r.ValueDate, r.BookingDate),
			ParticipantName: r.Participant,
			Type:            r.Text,
			Purpose:         r.Purpose,
			Amount:          r.Amount,
		}
		// The BLZ column holds a BIC for SEPA bookings.
		if isDigits(r.BLZ) {
			txn.ParticipantIBAN = id.AccountIdentifier(r.AccountNumber, r.BLZ)
		} else {
			txn.ParticipantIBAN = id.AccountIdentifier(r.AccountNumber, "")
			txn.ParticipantBIC = r.BLZ
		}
		return txn
	},
})

// dkbVisaRow is the DKB credit card export.
type dkbVisaRow struct {
	Settled        string          `col:"Umsatz abgerechnet und nicht im Saldo enthalten"`
	ValueDate      time.Time       `col:"Wertstellung,optional"`
	ReceiptDate    time.Time       `col:"Belegdatum"`
	Description    string          `col:"Beschreibung"`
	Amount         decimal.Decimal `col:"Betrag (EUR)"`
	OriginalAmount string          `col:"Ursprünglicher Betrag"`
}

var dkbVisa = newLayout(layout[dkbVisaRow]{
	name:     "dkb-visa",
	display:  "DKB Kreditkarte",
	bank:     "DKB",
	currency: "EUR",
	balance:  BalanceByValueDate,
	caveat:   "Credit card balances are counted from 0,00 in settlement order; pending card payments have no settlement date and are placed at their receipt date.",
	mapRow: func(r dkbVisaRow) model.Transaction {
		typ := "Kartenzahlung"
		if r.Settled == "Nein" {
			typ = "Vorgemerkt"
		}
		purpose := r.Description
		if r.OriginalAmount != "" {
			purpose += " (" + r.OriginalAmount + ")"
		}
		return model.Transaction{
			BookingDate:     r.ReceiptDate,
			ValueDate:       orDate(r.ValueDate, r.ReceiptDate),
			ParticipantName: r.Description,
			Type:            typ,
			Purpose:         purpose,
			Amount:          r.Amount,
		}
	},
})
