package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func sample() model.Accounts {
	return model.Accounts{
		{Name: "Giro", IBAN: "DE02120300000000202051", Bank: "DKB", Format: "dkb-giro"},
		{Name: "Savings", Bank: "ING", Format: "ing"},
	}
}

func TestNewService(t *testing.T) {
	svc := NewService(sample())
	assert.Len(t, svc.All(), 2)
	assert.Equal(t, []string{"Giro", "Savings"}, svc.All().Names())
}

func TestGetExists(t *testing.T) {
	svc := NewService(sample())

	acct, ok := svc.Get("giro")
	assert.True(t, ok)
	assert.Equal(t, "DKB", acct.Bank)

	_, ok = svc.Get("Depot")
	assert.False(t, ok)

	assert.True(t, svc.Exists("SAVINGS"))
	assert.False(t, svc.Exists("Depot"))
}

func TestUpsert(t *testing.T) {
	svc := NewService(sample())

	got := svc.Upsert(model.Account{Name: "giro", Format: "dkb-giro-legacy", Currency: "EUR"})
	assert.Equal(t, "Giro", got.Name, "stored name is kept")
	assert.Equal(t, "DE02120300000000202051", got.IBAN, "empty fields keep the stored value")
	assert.Equal(t, "dkb-giro-legacy", got.Format)
	assert.Equal(t, "EUR", got.Currency)
	assert.Len(t, svc.All(), 2)

	added := svc.Upsert(model.Account{
		Name:         "Card",
		Transactions: model.Transactions{{Purpose: "x"}},
	})
	assert.Nil(t, added.Transactions, "transactions are not part of the registry")
	assert.Equal(t, []string{"Giro", "Savings", "Card"}, svc.All().Names())
}

func TestLoad_Missing(t *testing.T) {
	svc, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, svc.All())
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "accounts"), 0o755))
	require.NoError(t, os.WriteFile(Path(dir), []byte("name,iban\n\"broken\n"), 0o644))

	_, err := Load(dir)
	assert.ErrorContains(t, err, "reading accounts")
}

func TestSaveRoundTrip(t *testing.T) {
	svc := NewService(sample())

	dir := t.TempDir()
	require.NoError(t, svc.Save(dir))
	assert.FileExists(t, filepath.Join(dir, "accounts", "accounts.csv"))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, svc.All(), got.All())
}
