package model

import "strings"

// VariableStat is the sentinel used for "?" attack or defense on effect
// monsters whose stats are determined at runtime.
const VariableStat = -1

// CardKind discriminates the two card shapes in a set document. Monster
// cards carry combat stats, spell and trap cards do not.
type CardKind string

const (
	KindMonster CardKind = "monster"
	KindSpell   CardKind = "spell"
	KindTrap    CardKind = "trap"
)

// KindFromType derives the card kind from the document's free-form type
// string. The second return value is false when the type matched no known
// pattern; callers treat such cards as the non-monster shape.
func KindFromType(cardType string) (CardKind, bool) {
	t := strings.ToLower(cardType)
	switch {
	case strings.Contains(t, "monster"):
		return KindMonster, true
	case strings.Contains(t, "spell"):
		return KindSpell, true
	case strings.Contains(t, "trap"):
		return KindTrap, true
	}
	return KindSpell, false
}

// RawCard mirrors a card entry as it appears in a set document. The
// monster-only fields are pointers so presence can be checked during
// validation.
type RawCard struct {
	ID                    int          `json:"id"`
	Name                  string       `json:"name"`
	Type                  string       `json:"type"`
	HumanReadableCardType string       `json:"humanReadableCardType"`
	FrameType             string       `json:"frameType"`
	Description           string       `json:"description"`
	Attack                *int         `json:"attack,omitempty"`
	Defense               *int         `json:"defense,omitempty"`
	Level                 *int         `json:"level,omitempty"`
	Race                  *string      `json:"race,omitempty"`
	Attribute             *string      `json:"attribute,omitempty"`
	Archetype             string       `json:"archetype,omitempty"`
	Images                CardImages   `json:"images"`
	ModSpecific           *ModSpecific `json:"mod_specific"`
}

// Card is a validated card. Monster is non-nil exactly when Kind is
// KindMonster, so monster-only fields cannot be read off a spell or trap.
type Card struct {
	ID                    int
	Name                  string
	Type                  string
	HumanReadableCardType string
	FrameType             string
	Description           string
	Kind                  CardKind
	Monster               *MonsterStats
	Archetype             string
	Images                CardImages
	ModSpecific           ModSpecific
}

// MonsterStats holds the combat fields of a monster card. Attack and
// Defense may be VariableStat for "?" stats.
type MonsterStats struct {
	Attack    int
	Defense   int
	Level     int
	Race      string
	Attribute Attribute
}

// Raw converts a validated card back to its document shape. Validating the
// result reproduces the card unchanged.
func (c Card) Raw() RawCard {
	mod := c.ModSpecific
	raw := RawCard{
		ID:                    c.ID,
		Name:                  c.Name,
		Type:                  c.Type,
		HumanReadableCardType: c.HumanReadableCardType,
		FrameType:             c.FrameType,
		Description:           c.Description,
		Archetype:             c.Archetype,
		Images:                c.Images,
		ModSpecific:           &mod,
	}
	if c.Monster != nil {
		attack, defense, level := c.Monster.Attack, c.Monster.Defense, c.Monster.Level
		race, attribute := c.Monster.Race, string(c.Monster.Attribute)
		raw.Attack = &attack
		raw.Defense = &defense
		raw.Level = &level
		raw.Race = &race
		raw.Attribute = &attribute
	}
	return raw
}
