package accounts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func TestRoundTrip(t *testing.T) {
	accounts := model.Accounts{
		{Name: "Giro", IBAN: "DE02120300000000202051", Bank: "DKB", Format: "dkb-giro", Currency: "EUR"},
		{Name: "Card", Bank: "DKB", Format: "dkb-visa"},
	}

	var buf bytes.Buffer
	err := WriteAccounts(&buf, accounts)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "name,iban,bank,format,currency\n"))

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	assert.Equal(t, accounts, got)
}

func TestReadAccounts_Empty(t *testing.T) {
	got, err := ReadAccounts(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadAccounts_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"wrong field count", "name,iban,bank,format,currency\nGiro,DE1\n", "reading accounts CSV"},
		{"missing name", "name,iban,bank,format,currency\n ,DE1,DKB,dkb-giro,EUR\n", "row 2: account name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadAccounts(strings.NewReader(tt.in))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
