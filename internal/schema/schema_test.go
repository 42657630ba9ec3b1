package schema

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/JustBryant/YGOMod-Card-Database/internal/model"
	"github.com/JustBryant/YGOMod-Card-Database/internal/testutil"
)

func TestValidateCard_Monster(t *testing.T) {
	card, lints, err := ValidateCard(testutil.MonsterCard(89631139))
	if err != nil {
		t.Fatalf("ValidateCard: %v", err)
	}
	if len(lints) != 0 {
		t.Errorf("unexpected lints: %v", lints)
	}
	if card.Kind != model.KindMonster {
		t.Errorf("Kind = %v, want monster", card.Kind)
	}
	if card.Monster == nil {
		t.Fatal("Monster stats missing")
	}
	if card.Monster.Attribute != model.AttributeLight {
		t.Errorf("Attribute = %v, want LIGHT", card.Monster.Attribute)
	}
}

func TestValidateCard_SpellWithoutCombatFields(t *testing.T) {
	card, lints, err := ValidateCard(testutil.SpellCard(53129443))
	if err != nil {
		t.Fatalf("spell without level/attack/defense should be valid: %v", err)
	}
	if len(lints) != 0 {
		t.Errorf("unexpected lints: %v", lints)
	}
	if card.Kind != model.KindSpell {
		t.Errorf("Kind = %v, want spell", card.Kind)
	}
	if card.Monster != nil {
		t.Error("spell card should carry no monster stats")
	}
}

func TestValidateCard_MonsterMissingLevel(t *testing.T) {
	raw := testutil.MonsterCard(1)
	raw.Level = nil

	_, _, err := ValidateCard(raw)
	if err == nil {
		t.Fatal("monster without level should fail validation")
	}
	if !strings.Contains(err.Error(), "level") {
		t.Errorf("error should name the level field, got %v", err)
	}
}

func TestValidateCard_PackWeightBounds(t *testing.T) {
	tests := []struct {
		weight float64
		ok     bool
	}{
		{0.0, true},
		{1.0, true},
		{0.5, true},
		{1.5, false},
		{-0.1, false},
	}

	for _, tt := range tests {
		raw := testutil.SpellCard(2)
		raw.ModSpecific.PackWeight = tt.weight

		_, _, err := ValidateCard(raw)
		if tt.ok && err != nil {
			t.Errorf("pack_weight %g should be accepted: %v", tt.weight, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("pack_weight %g should be rejected", tt.weight)
		}
	}
}

func TestValidateCard_LevelRange(t *testing.T) {
	for _, level := range []int{0, 13, -1} {
		raw := testutil.MonsterCard(3)
		raw.Level = &level
		if _, _, err := ValidateCard(raw); err == nil {
			t.Errorf("level %d should be rejected", level)
		}
	}
	for _, level := range []int{1, 12} {
		raw := testutil.MonsterCard(3)
		raw.Level = &level
		if _, _, err := ValidateCard(raw); err != nil {
			t.Errorf("level %d should be accepted: %v", level, err)
		}
	}
}

func TestValidateCard_VariableStatSentinel(t *testing.T) {
	raw := testutil.MonsterCard(4)
	variable := model.VariableStat
	raw.Attack = &variable
	raw.Defense = &variable

	card, _, err := ValidateCard(raw)
	if err != nil {
		t.Fatalf("variable attack/defense should be accepted: %v", err)
	}
	if card.Monster.Attack != model.VariableStat {
		t.Errorf("Attack = %d, want sentinel %d", card.Monster.Attack, model.VariableStat)
	}

	bad := -2
	raw.Attack = &bad
	if _, _, err := ValidateCard(raw); err == nil {
		t.Error("attack -2 should be rejected")
	}
}

func TestValidateCard_UnknownAttribute(t *testing.T) {
	raw := testutil.MonsterCard(5)
	attr := "VOID"
	raw.Attribute = &attr

	if _, _, err := ValidateCard(raw); err == nil {
		t.Error("unknown attribute should be rejected")
	}
}

func TestValidateCard_UnknownRarity(t *testing.T) {
	raw := testutil.SpellCard(6)
	raw.ModSpecific.RarityTier = "mythic"

	if _, _, err := ValidateCard(raw); err == nil {
		t.Error("unknown rarity tier should be rejected")
	}
}

func TestValidateCard_MalformedImageURL(t *testing.T) {
	tests := []string{"", "not a url", "ftp://files.example.com/a.jpg", "/relative/path.jpg"}
	for _, bad := range tests {
		raw := testutil.SpellCard(7)
		raw.Images.SmallURL = bad
		if _, _, err := ValidateCard(raw); err == nil {
			t.Errorf("image URL %q should be rejected", bad)
		}
	}
}

func TestValidateCard_UnknownTypeDegradesToNonMonster(t *testing.T) {
	raw := testutil.SpellCard(8)
	raw.Type = "Skill Card"

	card, lints, err := ValidateCard(raw)
	if err != nil {
		t.Fatalf("unknown type should degrade, not fail: %v", err)
	}
	if card.Kind == model.KindMonster {
		t.Error("unknown type should not produce a monster")
	}
	if len(lints) == 0 {
		t.Error("unknown type should produce a lint")
	}
}

func TestValidateCard_MonsterFieldsOnSpellAreLinted(t *testing.T) {
	raw := testutil.SpellCard(9)
	level := 4
	raw.Level = &level

	card, lints, err := ValidateCard(raw)
	if err != nil {
		t.Fatalf("spell with stray level should still validate: %v", err)
	}
	if card.Monster != nil {
		t.Error("stray level must not produce monster stats")
	}
	if len(lints) == 0 {
		t.Error("stray level should produce a lint")
	}
}

func TestValidateCard_TagCasingLint(t *testing.T) {
	raw := testutil.SpellCard(10)
	raw.ModSpecific.Tags = []string{"ok_tag", "Bad-Tag"}

	_, lints, err := ValidateCard(raw)
	if err != nil {
		t.Fatalf("tag casing must not fail validation: %v", err)
	}
	if len(lints) != 1 {
		t.Errorf("want one tag lint, got %v", lints)
	}
}

func TestValidateCard_Idempotent(t *testing.T) {
	first, _, err := ValidateCard(testutil.MonsterCard(89631139))
	if err != nil {
		t.Fatalf("first validation: %v", err)
	}

	second, _, err := ValidateCard(first.Raw())
	if err != nil {
		t.Fatalf("second validation: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("validation is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestCheckReleaseDate(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		date string
		ok   bool
	}{
		{"2002-03-08", true},
		{"", false},
		{"March 8, 2002", false},
		{"2030-01-01", false},
	}

	for _, tt := range tests {
		msg, ok := CheckReleaseDate(tt.date, now)
		if ok != tt.ok {
			t.Errorf("CheckReleaseDate(%q) ok = %v, want %v (%s)", tt.date, ok, tt.ok, msg)
		}
	}
}
