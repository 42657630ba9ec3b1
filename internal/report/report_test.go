package report

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/JustBryant/YGOMod-Card-Database/internal/catalog"
	"github.com/JustBryant/YGOMod-Card-Database/internal/model"
	"github.com/JustBryant/YGOMod-Card-Database/internal/schema"
	"github.com/JustBryant/YGOMod-Card-Database/internal/testutil"
)

func buildCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	b := catalog.NewBuilder(model.RepositoryInfo{Name: "Test Card Database"})
	for _, doc := range []model.RawCardSet{
		testutil.SetDocument("LOB", "Legend of Blue Eyes",
			testutil.MonsterCard(89631139), testutil.SpellCard(53129443)),
	} {
		set := model.CardSet{SetInfo: doc.SetInfo}
		for _, raw := range doc.Cards {
			card, _, err := schema.ValidateCard(raw)
			if err != nil {
				t.Fatalf("fixture card invalid: %v", err)
			}
			set.Cards = append(set.Cards, card)
		}
		b.AddSet(set)
	}
	return b.Build()
}

func parseCSV(t *testing.T, out string) [][]string {
	t.Helper()

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV output: %v", err)
	}
	return rows
}

func TestWriteIssues(t *testing.T) {
	issues := []catalog.Issue{
		{
			Code:      catalog.CodeInvalidCard,
			Severity:  catalog.SeverityError,
			SetID:     "LOB",
			CardIndex: 4,
			Message:   "card 7: level is required for monster cards",
		},
		{
			Code:      catalog.CodeOrphanFile,
			Severity:  catalog.SeverityWarning,
			CardIndex: catalog.NoCard,
			Message:   "=HYPERLINK() is present in the repository but not referenced by the index",
		},
	}

	var buf strings.Builder
	if err := WriteIssues(&buf, issues); err != nil {
		t.Fatalf("WriteIssues: %v", err)
	}

	rows := parseCSV(t, buf.String())
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 issues", len(rows))
	}
	if rows[1][0] != "error" || rows[1][1] != "InvalidCard" || rows[1][2] != "LOB" || rows[1][3] != "4" {
		t.Errorf("issue row = %v", rows[1])
	}
	// The card column stays empty for repository-level issues.
	if rows[2][3] != "" {
		t.Errorf("card column = %q, want empty", rows[2][3])
	}
	// Hostile message text gets formula-escaped.
	if !strings.HasPrefix(rows[2][4], "'=") {
		t.Errorf("message not escaped: %q", rows[2][4])
	}
}

func TestWriteCards(t *testing.T) {
	cat := buildCatalog(t)

	var buf strings.Builder
	if err := WriteCards(&buf, cat); err != nil {
		t.Fatalf("WriteCards: %v", err)
	}

	rows := parseCSV(t, buf.String())
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 cards", len(rows))
	}

	monster := rows[1]
	if monster[0] != "LOB" || monster[2] != "Blue-Eyes White Dragon" {
		t.Errorf("monster row = %v", monster)
	}
	if monster[5] != "3000" || monster[6] != "2500" || monster[7] != "8" {
		t.Errorf("monster stats = %v", monster[5:8])
	}

	spell := rows[2]
	if spell[2] != "Dark Hole" {
		t.Errorf("spell row = %v", spell)
	}
	// Combat columns stay empty for non-monsters.
	for i := 5; i <= 9; i++ {
		if spell[i] != "" {
			t.Errorf("spell column %d = %q, want empty", i, spell[i])
		}
	}
}
