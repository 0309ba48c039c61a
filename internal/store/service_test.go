package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

func TestSlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Giro", "giro"},
		{"  DKB Visa  ", "dkb-visa"},
		{"Gemeinschaftskonto (Jörg & Anna)", "gemeinschaftskonto-joerg-anna"},
		{"Spaß!!", "spass"},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.in), "Slug(%q)", tt.in)
	}
}

func TestService_ReadMissing(t *testing.T) {
	svc := NewService(t.TempDir())
	txns, err := svc.Read("Giro")
	require.NoError(t, err)
	assert.Nil(t, txns)
}

func TestService_WriteRead(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir)

	require.NoError(t, svc.Write("Giro", sample()))
	assert.FileExists(t, filepath.Join(dir, "accounts", "giro", "transactions.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "accounts", "giro", "transactions.csv.tmp"))

	got, err := svc.Read("giro")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestService_WriteValidates(t *testing.T) {
	svc := NewService(t.TempDir())
	txns := sample()
	txns[1].Purpose = "edited after fingerprinting"

	err := svc.Write("Giro", txns)
	assert.ErrorContains(t, err, "validation failed")
	assert.ErrorContains(t, err, "fingerprint does not match")

	_, statErr := os.Stat(svc.Path("Giro"))
	assert.True(t, os.IsNotExist(statErr), "nothing is written")
}

func TestService_ReadCorrupt(t *testing.T) {
	svc := NewService(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Dir(svc.Path("Giro")), 0o755))
	require.NoError(t, os.WriteFile(svc.Path("Giro"), []byte("hash\n\"open\n"), 0o644))

	_, err := svc.Read("Giro")
	assert.ErrorContains(t, err, "reading transactions")
}

func TestService_Import(t *testing.T) {
	svc := NewService(t.TempDir())
	all := sample()

	added, err := svc.Import("Giro", all[:2])
	require.NoError(t, err)
	assert.Len(t, added, 2)

	// Re-importing an overlapping export only adds the new row.
	added, err = svc.Import("Giro", all[1:])
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, all[2].Hash, added[0].Hash)

	added, err = svc.Import("Giro", all)
	require.NoError(t, err)
	assert.Empty(t, added)

	stored, err := svc.Read("Giro")
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestMerge(t *testing.T) {
	all := sample()
	kept := all[2]
	kept.Tag = &model.Tag{Category: "Food"}
	existing := model.Transactions{kept, all[0]}
	incoming := model.Transactions{all[1], all[2], all[1]}

	merged, added := Merge(existing, incoming)

	require.Len(t, added, 1)
	assert.Equal(t, all[1].Hash, added[0].Hash)

	require.Len(t, merged, 3)
	assert.Equal(t, []string{all[0].Hash, all[1].Hash, all[2].Hash},
		[]string{merged[0].Hash, merged[1].Hash, merged[2].Hash}, "sorted by booking date")
	assert.Equal(t, "Food", merged[2].Category(), "stored tags win over the re-import")

	merged[2].Tag.Category = "changed"
	assert.Equal(t, "Food", kept.Tag.Category, "existing is not modified")
	assert.Equal(t, all[0].Hash, existing[1].Hash)
}

func TestMerge_Empty(t *testing.T) {
	merged, added := Merge(nil, nil)
	assert.Empty(t, merged)
	assert.Empty(t, added)

	all := sample()
	merged, added = Merge(nil, all)
	assert.Len(t, merged, 3)
	assert.Len(t, added, 3)
}

func TestValidate(t *testing.T) {
	assert.Empty(t, Validate(sample(), "Giro"))

	txns := sample()
	txns[0].Hash = ""
	txns[1].Currency = ""
	dup := txns[2]
	txns = append(txns, dup)

	errs := Validate(txns, "Giro")
	require.Len(t, errs, 3)
	assert.Equal(t, ValidationError{Row: 1, Description: "missing fingerprint"}, errs[0])
	assert.Equal(t, 2, errs[1].Row)
	assert.Equal(t, "missing currency", errs[1].Description)
	assert.Equal(t, 4, errs[2].Row)
	assert.Contains(t, errs[2].Error(), "duplicate of transaction 3")
}

func TestValidate_OtherAccountName(t *testing.T) {
	errs := Validate(sample(), "Joint")
	require.Len(t, errs, 3)
	want := id.Fingerprint(sample()[0], "Joint")
	assert.Contains(t, errs[0].Description, want)
}
