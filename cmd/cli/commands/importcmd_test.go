package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntc490/mls3/pkg/core/model"
)

func writeImportFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "directory.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseImportFile_MapsAliasedHeaders(t *testing.T) {
	path := writeImportFile(t, `First Name,Surname,Sex,Phone Number,Birth Date
John,Smith,Male,5551234,1980-05-01
Ann,Lee,F,5555678,1990-02-10
`)

	members, skipped, err := parseImportFile(path)

	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, members, 2)

	assert.Equal(t, "John", members[0].FirstName)
	assert.Equal(t, "Smith", members[0].LastName)
	assert.Equal(t, model.GenderMale, members[0].Gender)
	assert.Equal(t, "5551234", members[0].Phone)
	assert.Equal(t, "1980-05-01", members[0].Birthday)
	assert.Equal(t, model.GenderFemale, members[1].Gender)
}

func TestParseImportFile_SkipsRowsWithoutNames(t *testing.T) {
	path := writeImportFile(t, `first_name,last_name
John,Smith
,Smith
John,
`)

	members, skipped, err := parseImportFile(path)

	require.NoError(t, err)
	assert.Len(t, members, 1)
	assert.Equal(t, 2, skipped)
}

func TestParseImportFile_IgnoresUnknownColumns(t *testing.T) {
	path := writeImportFile(t, `first_name,last_name,shoe_size
John,Smith,11
`)

	members, _, err := parseImportFile(path)

	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "John Smith", members[0].FullName())
}

func TestParseImportFile_EmptyFile(t *testing.T) {
	path := writeImportFile(t, "first_name,last_name\n")

	_, _, err := parseImportFile(path)
	require.Error(t, err)
}

func TestParseGender(t *testing.T) {
	assert.Equal(t, model.GenderMale, parseGender("male"))
	assert.Equal(t, model.GenderMale, parseGender("M"))
	assert.Equal(t, model.GenderFemale, parseGender("Female"))
	assert.Equal(t, model.Gender(""), parseGender("unknown"))
}
