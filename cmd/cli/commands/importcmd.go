package commands

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ntc490/mls3/pkg/core/model"
	"github.com/ntc490/mls3/pkg/core/services"
)

// headerAliases maps normalized external column names onto member fields
var headerAliases = map[string]string{
	"id":                   "id",
	"member id":            "id",
	"first name":           "first",
	"first":                "first",
	"given name":           "first",
	"last name":            "last",
	"last":                 "last",
	"surname":              "last",
	"preferred name":       "aka",
	"aka":                  "aka",
	"gender":               "gender",
	"sex":                  "gender",
	"phone":                "phone",
	"phone number":         "phone",
	"individual phone":     "phone",
	"birthday":             "birthday",
	"birth date":           "birthday",
	"recommend expiration": "recommend",
	"notes":                "notes",
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.ReplaceAll(h, "_", " ")
}

// parseImportFile reads an external roster export and maps its columns onto
// member records. Unknown columns are ignored; rows missing a name are
// skipped.
func parseImportFile(path string) ([]model.Member, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse import file: %w", err)
	}
	if len(records) < 2 {
		return nil, 0, fmt.Errorf("import file has no data rows")
	}

	fields := make(map[int]string)
	for i, h := range records[0] {
		if field, ok := headerAliases[normalizeHeader(h)]; ok {
			fields[i] = field
		}
	}

	var members []model.Member
	skipped := 0
	for _, row := range records[1:] {
		var m model.Member
		for i, value := range row {
			value = strings.TrimSpace(value)
			switch fields[i] {
			case "id":
				m.ID = value
			case "first":
				m.FirstName = value
			case "last":
				m.LastName = value
			case "aka":
				m.AKA = value
			case "gender":
				m.Gender = parseGender(value)
			case "phone":
				m.Phone = value
			case "birthday":
				m.Birthday = value
			case "recommend":
				m.RecommendExpiration = value
			case "notes":
				m.Notes = value
			}
		}
		if m.FirstName == "" || m.LastName == "" {
			skipped++
			continue
		}
		members = append(members, m)
	}

	return members, skipped, nil
}

func parseGender(value string) model.Gender {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "M", "MALE":
		return model.GenderMale
	case "F", "FEMALE":
		return model.GenderFemale
	}
	return ""
}

// ImportMembersCmd creates the importMembers command
func ImportMembersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importMembers <csv_file>",
		Short: "Merge an external roster export into the member list",
		Long: `Merge an external roster export (such as a ward directory CSV) into the
member list. Existing members are matched by ID or full name and only have
their empty fields filled in; new people are added as active members.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			incoming, skipped, err := parseImportFile(args[0])
			if err != nil {
				return err
			}

			stats, err := services.ImportMembers(app.Ctx, app.Database, app.Logger, incoming)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Import finished\n\n")
			fmt.Printf("Added:     %d\n", stats.Added)
			fmt.Printf("Updated:   %d\n", stats.Updated)
			fmt.Printf("Unchanged: %d\n", stats.Unchanged)
			if skipped > 0 {
				fmt.Printf("Skipped:   %d (missing name)\n", skipped)
			}
			fmt.Println()
			return nil
		},
	}
}
