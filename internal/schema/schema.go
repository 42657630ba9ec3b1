// Package schema validates raw card documents against the repository card
// schema. Validation is pure: no I/O, no mutation of the input.
package schema

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/JustBryant/YGOMod-Card-Database/internal/model"
)

const (
	MinLevel = 1
	MaxLevel = 12
)

// FieldError describes a single schema violation on a card field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidateCard checks a raw card against the schema and returns the
// validated form. Hard violations are joined into the returned error.
// Lints are advisory findings that do not fail the card.
func ValidateCard(raw model.RawCard) (model.Card, []string, error) {
	var errs []error
	var lints []string

	fail := func(field, format string, args ...any) {
		errs = append(errs, &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	if raw.ID <= 0 {
		fail("id", "must be a positive integer, got %d", raw.ID)
	}
	if raw.Name == "" {
		fail("name", "must be non-empty")
	}
	if raw.Type == "" {
		fail("type", "must be non-empty")
	}

	checkURL(raw.Images.ArtworkURL, "images.artwork_url", fail)
	checkURL(raw.Images.SmallURL, "images.small_url", fail)
	checkURL(raw.Images.CroppedURL, "images.cropped_url", fail)

	kind, known := model.KindFromType(raw.Type)
	if !known && raw.Type != "" {
		lints = append(lints, fmt.Sprintf("type %q matches no known monster/spell/trap pattern, treating as non-monster", raw.Type))
	}

	var monster *model.MonsterStats
	if kind == model.KindMonster {
		monster = validateMonster(raw, fail)
	} else {
		for _, f := range []struct {
			name    string
			present bool
		}{
			{"attack", raw.Attack != nil},
			{"defense", raw.Defense != nil},
			{"level", raw.Level != nil},
			{"race", raw.Race != nil},
			{"attribute", raw.Attribute != nil},
		} {
			if f.present {
				lints = append(lints, fmt.Sprintf("%s is ignored on a non-monster card", f.name))
			}
		}
	}

	var mod model.ModSpecific
	if raw.ModSpecific == nil {
		fail("mod_specific", "is required")
	} else {
		mod = *raw.ModSpecific
		if !mod.RarityTier.Valid() {
			fail("mod_specific.rarity_tier", "unknown tier %q", mod.RarityTier)
		}
		if mod.PackWeight < 0.0 || mod.PackWeight > 1.0 {
			fail("mod_specific.pack_weight", "must be within [0.0, 1.0], got %g", mod.PackWeight)
		}
		for _, tag := range mod.Tags {
			if !wellFormedTag(tag) {
				lints = append(lints, fmt.Sprintf("tag %q should be lowercase and underscore-delimited", tag))
			}
		}
	}

	if len(errs) > 0 {
		return model.Card{}, lints, errors.Join(errs...)
	}

	return model.Card{
		ID:                    raw.ID,
		Name:                  raw.Name,
		Type:                  raw.Type,
		HumanReadableCardType: raw.HumanReadableCardType,
		FrameType:             raw.FrameType,
		Description:           raw.Description,
		Kind:                  kind,
		Monster:               monster,
		Archetype:             raw.Archetype,
		Images:                raw.Images,
		ModSpecific:           mod,
	}, lints, nil
}

func validateMonster(raw model.RawCard, fail func(field, format string, args ...any)) *model.MonsterStats {
	stats := &model.MonsterStats{}

	if raw.Attack == nil {
		fail("attack", "is required for monster cards")
	} else if *raw.Attack < 0 && *raw.Attack != model.VariableStat {
		fail("attack", "must be non-negative or %d for variable stats, got %d", model.VariableStat, *raw.Attack)
	} else {
		stats.Attack = *raw.Attack
	}

	if raw.Defense == nil {
		fail("defense", "is required for monster cards")
	} else if *raw.Defense < 0 && *raw.Defense != model.VariableStat {
		fail("defense", "must be non-negative or %d for variable stats, got %d", model.VariableStat, *raw.Defense)
	} else {
		stats.Defense = *raw.Defense
	}

	if raw.Level == nil {
		fail("level", "is required for monster cards")
	} else if *raw.Level < MinLevel || *raw.Level > MaxLevel {
		fail("level", "must be within %d-%d, got %d", MinLevel, MaxLevel, *raw.Level)
	} else {
		stats.Level = *raw.Level
	}

	if raw.Race == nil || *raw.Race == "" {
		fail("race", "is required for monster cards")
	} else {
		stats.Race = *raw.Race
	}

	if raw.Attribute == nil {
		fail("attribute", "is required for monster cards")
	} else if attr := model.Attribute(*raw.Attribute); !attr.Valid() {
		fail("attribute", "unknown attribute %q", *raw.Attribute)
	} else {
		stats.Attribute = attr
	}

	return stats
}

func checkURL(raw, field string, fail func(field, format string, args ...any)) {
	if raw == "" {
		fail(field, "is required")
		return
	}
	u, err := url.Parse(raw)
	if err != nil {
		fail(field, "is not a valid URL: %v", err)
		return
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		fail(field, "must be an absolute http(s) URL, got %q", raw)
	}
}

func wellFormedTag(tag string) bool {
	if tag == "" {
		return false
	}
	for _, r := range tag {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}

// CheckReleaseDate lints a release date string. Dates are informational
// only, so a missing, malformed or future date is a warning, never a hard
// failure.
func CheckReleaseDate(date string, now time.Time) (string, bool) {
	if date == "" {
		return "release_date is missing", false
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Sprintf("release_date %q is not a YYYY-MM-DD date", date), false
	}
	if parsed.After(now) {
		return fmt.Sprintf("release_date %s is in the future", date), false
	}
	return "", true
}
