package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Header is the CSV header for transactions.csv.
const Header = "hash,booking_date,value_date,participant_name,participant_iban,participant_bic,type,purpose,amount,currency,balance,account_iban,category,subcategory,months,ignore,rule_id,rule_name"

const (
	numFields      = 18
	dateFormat     = "2006-01-02"
	colHash        = 0
	colBookingDate = 1
	colValueDate   = 2
	colName        = 3
	colIBAN        = 4
	colBIC         = 5
	colType        = 6
	colPurpose     = 7
	colAmount      = 8
	colCurrency    = 9
	colBalance     = 10
	colAccountIBAN = 11
	colCategory    = 12
	colSubcategory = 13
	colMonths      = 14
	colIgnore      = 15
	colRuleID      = 16
	colRuleName    = 17
)

// ReadTransactions reads all transactions from a transactions.csv reader.
func ReadTransactions(r io.Reader) (model.Transactions, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns model.Transactions
	for i, rec := range records[1:] {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// WriteTransactions writes txns to a transactions.csv writer (including header).
func WriteTransactions(w io.Writer, txns model.Transactions) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colHash] = t.Hash
	row[colBookingDate] = t.BookingDate.Format(dateFormat)
	row[colValueDate] = t.ValueDate.Format(dateFormat)
	row[colName] = t.ParticipantName
	row[colIBAN] = t.ParticipantIBAN
	row[colBIC] = t.ParticipantBIC
	row[colType] = t.Type
	row[colPurpose] = t.Purpose
	row[colAmount] = t.Amount.StringFixed(2)
	row[colCurrency] = t.Currency
	row[colBalance] = t.Balance.StringFixed(2)
	row[colAccountIBAN] = t.AccountIBAN

	if tag := t.Tag; tag != nil {
		row[colCategory] = tag.Category
		row[colSubcategory] = tag.Subcategory
		if tag.Months != 0 {
			row[colMonths] = strconv.Itoa(tag.Months)
		}
		if tag.Ignore {
			row[colIgnore] = "true"
		}
		row[colRuleID] = tag.RuleID
		row[colRuleName] = tag.RuleName
	}
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction. A row with no tag
// columns set yields an untagged transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	booking, err := time.Parse(dateFormat, record[colBookingDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing booking_date %q: %w", record[colBookingDate], err)
	}
	valueDate, err := time.Parse(dateFormat, record[colValueDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing value_date %q: %w", record[colValueDate], err)
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	balance, err := decimal.NewFromString(record[colBalance])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
	}

	t := model.Transaction{
		Hash:            record[colHash],
		BookingDate:     booking,
		ValueDate:       valueDate,
		ParticipantName: record[colName],
		ParticipantIBAN: record[colIBAN],
		ParticipantBIC:  record[colBIC],
		Type:            record[colType],
		Purpose:         record[colPurpose],
		Amount:          amount,
		Currency:        record[colCurrency],
		Balance:         balance,
		AccountIBAN:     record[colAccountIBAN],
	}

	tagCols := record[colCategory : colRuleName+1]
	if strings.Join(tagCols, "") == "" {
		return t, nil
	}
	tag := &model.Tag{
		Category:    record[colCategory],
		Subcategory: record[colSubcategory],
		RuleID:      record[colRuleID],
		RuleName:    record[colRuleName],
	}
	if s := record[colMonths]; s != "" {
		if tag.Months, err = strconv.Atoi(s); err != nil {
			return model.Transaction{}, fmt.Errorf("parsing months %q: %w", s, err)
		}
	}
	if s := record[colIgnore]; s != "" {
		if tag.Ignore, err = strconv.ParseBool(s); err != nil {
			return model.Transaction{}, fmt.Errorf("parsing ignore %q: %w", s, err)
		}
	}
	t.Tag = tag
	return t, nil
}
