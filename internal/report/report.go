// Package report exports load results as CSV for spreadsheet review. All
// cells pass through formula-injection escaping because card names and
// issue messages contain arbitrary repository text.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/JustBryant/YGOMod-Card-Database/internal/catalog"
)

// WriteIssues writes the issue list as CSV.
func WriteIssues(w io.Writer, issues []catalog.Issue) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(EscapeCSVRow([]string{"Severity", "Code", "Set", "Card", "Message"})); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, issue := range issues {
		card := ""
		if issue.CardIndex != catalog.NoCard {
			card = strconv.Itoa(issue.CardIndex)
		}
		row := []string{
			string(issue.Severity),
			string(issue.Code),
			issue.SetID,
			card,
			issue.Message,
		}
		if err := cw.Write(EscapeCSVRow(row)); err != nil {
			return fmt.Errorf("write issue row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCards writes every card in the catalog as CSV, in set order.
func WriteCards(w io.Writer, cat *catalog.Catalog) error {
	cw := csv.NewWriter(w)

	header := []string{"Set", "ID", "Name", "Type", "Kind", "Attack", "Defense", "Level", "Race", "Attribute", "Archetype", "Rarity", "PackWeight", "Craftable"}
	if err := cw.Write(EscapeCSVRow(header)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, setID := range cat.SetIDs() {
		set, ok := cat.Set(setID)
		if !ok {
			continue
		}
		for _, card := range set.Cards {
			attack, defense, level, race, attribute := "", "", "", "", ""
			if card.Monster != nil {
				attack = strconv.Itoa(card.Monster.Attack)
				defense = strconv.Itoa(card.Monster.Defense)
				level = strconv.Itoa(card.Monster.Level)
				race = card.Monster.Race
				attribute = string(card.Monster.Attribute)
			}
			row := []string{
				setID,
				strconv.Itoa(card.ID),
				card.Name,
				card.Type,
				string(card.Kind),
				attack,
				defense,
				level,
				race,
				attribute,
				card.Archetype,
				string(card.ModSpecific.RarityTier),
				strconv.FormatFloat(card.ModSpecific.PackWeight, 'f', -1, 64),
				strconv.FormatBool(card.ModSpecific.Craftable),
			}
			if err := cw.Write(EscapeCSVRow(row)); err != nil {
				return fmt.Errorf("write card row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
