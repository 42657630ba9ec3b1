// Package testutil provides factories for repository documents used
// across the test suites.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/JustBryant/YGOMod-Card-Database/internal/model"
)

// MonsterCard returns a valid raw monster card with the given id.
func MonsterCard(id int) model.RawCard {
	attack, defense, level := 3000, 2500, 8
	race, attribute := "Dragon", "LIGHT"
	return model.RawCard{
		ID:                    id,
		Name:                  "Blue-Eyes White Dragon",
		Type:                  "Normal Monster",
		HumanReadableCardType: "Normal Monster",
		FrameType:             "normal",
		Description:           "This legendary dragon is a powerful engine of destruction.",
		Attack:                &attack,
		Defense:               &defense,
		Level:                 &level,
		Race:                  &race,
		Attribute:             &attribute,
		Archetype:             "Blue-Eyes",
		Images:                Images(id),
		ModSpecific: &model.ModSpecific{
			RarityTier:      model.RarityLegendary,
			PackWeight:      0.01,
			Craftable:       true,
			UnlockCondition: "starter_collection",
			Tags:            []string{"dragon", "high_attack"},
		},
	}
}

// SpellCard returns a valid raw spell card with the given id.
func SpellCard(id int) model.RawCard {
	return model.RawCard{
		ID:                    id,
		Name:                  "Dark Hole",
		Type:                  "Spell Card",
		HumanReadableCardType: "Normal Spell",
		FrameType:             "spell",
		Description:           "Destroy all monsters on the field.",
		Images:                Images(id),
		ModSpecific: &model.ModSpecific{
			RarityTier:      model.RarityRare,
			PackWeight:      0.2,
			Craftable:       true,
			UnlockCondition: "always",
			Tags:            []string{"removal"},
		},
	}
}

// Images returns well-formed CDN URLs for a card id.
func Images(id int) model.CardImages {
	base := "https://images.example.com/cards"
	return model.CardImages{
		ArtworkURL: urlFor(base, id, "artwork"),
		SmallURL:   urlFor(base, id, "small"),
		CroppedURL: urlFor(base, id, "cropped"),
	}
}

func urlFor(base string, id int, variant string) string {
	return base + "/" + variant + "/" + strconv.Itoa(id) + ".jpg"
}

// SetDocument builds a raw set document whose declared counts match the
// given cards.
func SetDocument(id, name string, cards ...model.RawCard) model.RawCardSet {
	return model.RawCardSet{
		SetInfo: model.SetInfo{
			ID:          id,
			Name:        name,
			Code:        id + "-EN",
			ReleaseDate: "2002-03-08",
			CardCount:   len(cards),
		},
		Cards: cards,
	}
}

// Index builds an index document referencing the given sets with correct
// counts and file paths of the form "sets/<id>.json".
func Index(sets ...model.RawCardSet) model.RepositoryIndex {
	idx := model.RepositoryIndex{
		RepositoryInfo: model.RepositoryInfo{
			Name:        "Test Card Database",
			Version:     "1.0.0",
			Description: "Fixture repository",
			LastUpdated: "2024-01-01T00:00:00Z",
		},
	}
	for _, set := range sets {
		idx.Sets = append(idx.Sets, model.SetReference{
			ID:          set.SetInfo.ID,
			Name:        set.SetInfo.Name,
			File:        "sets/" + set.SetInfo.ID + ".json",
			CardCount:   len(set.Cards),
			ReleaseDate: set.SetInfo.ReleaseDate,
		})
	}
	return idx
}

// WriteRepository materializes an index and its set documents under dir
// in the on-disk layout the loader expects. It returns the index path.
func WriteRepository(t *testing.T, dir string, idx model.RepositoryIndex, sets ...model.RawCardSet) string {
	t.Helper()

	WriteJSON(t, filepath.Join(dir, "index.json"), idx)
	for _, set := range sets {
		WriteJSON(t, filepath.Join(dir, "sets", set.SetInfo.ID+".json"), set)
	}
	return filepath.Join(dir, "index.json")
}

// WriteJSON marshals v and writes it to path, creating parent directories.
func WriteJSON(t *testing.T, path string, v interface{}) {
	t.Helper()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
