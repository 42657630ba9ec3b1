package testutil

import (
	"strings"
	"testing"
)

func TestMonsterCardShape(t *testing.T) {
	raw := MonsterCard(89631139)

	if raw.ID != 89631139 {
		t.Errorf("id = %d", raw.ID)
	}
	for name, ptr := range map[string]bool{
		"attack":    raw.Attack != nil,
		"defense":   raw.Defense != nil,
		"level":     raw.Level != nil,
		"race":      raw.Race != nil,
		"attribute": raw.Attribute != nil,
	} {
		if !ptr {
			t.Errorf("monster fixture is missing %s", name)
		}
	}
	if raw.ModSpecific == nil {
		t.Fatal("monster fixture is missing mod_specific")
	}
	for _, u := range []string{raw.Images.ArtworkURL, raw.Images.SmallURL, raw.Images.CroppedURL} {
		if !strings.HasPrefix(u, "https://") || !strings.Contains(u, "89631139") {
			t.Errorf("image URL %q should be absolute and carry the card id", u)
		}
	}
}

func TestSpellCardShape(t *testing.T) {
	raw := SpellCard(53129443)

	if raw.Attack != nil || raw.Defense != nil || raw.Level != nil || raw.Race != nil || raw.Attribute != nil {
		t.Error("spell fixture must not carry monster fields")
	}
	if raw.ModSpecific == nil {
		t.Error("spell fixture is missing mod_specific")
	}
}

func TestIndexMatchesSets(t *testing.T) {
	lob := SetDocument("LOB", "Legend of Blue Eyes", MonsterCard(1), SpellCard(2))
	idx := Index(lob)

	if len(idx.Sets) != 1 {
		t.Fatalf("index has %d references", len(idx.Sets))
	}
	ref := idx.Sets[0]
	if ref.ID != "LOB" || ref.File != "sets/LOB.json" || ref.CardCount != 2 {
		t.Errorf("reference = %+v", ref)
	}
	if lob.SetInfo.CardCount != 2 {
		t.Errorf("set_info.card_count = %d, want 2", lob.SetInfo.CardCount)
	}
}
