package model

// RepositoryIndex is the top-level index document of a card repository.
type RepositoryIndex struct {
	RepositoryInfo RepositoryInfo `json:"repository_info"`
	Sets           []SetReference `json:"sets"`
}

// RepositoryInfo carries descriptive metadata about the repository.
type RepositoryInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	LastUpdated string `json:"last_updated"`
}

// SetReference points the index at a per-set document.
type SetReference struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	File        string `json:"file"`
	CardCount   int    `json:"card_count"`
	ReleaseDate string `json:"release_date"`
}

// CardSet is a validated set document.
type CardSet struct {
	SetInfo SetInfo `json:"set_info"`
	Cards   []Card  `json:"cards"`
}

// RawCardSet mirrors a set document before card validation. Cards stay in
// their raw form so per-card failures can be reported individually.
type RawCardSet struct {
	SetInfo SetInfo   `json:"set_info"`
	Cards   []RawCard `json:"cards"`
}

// SetInfo is the redundant in-file copy of the set metadata. It must agree
// with the SetReference in the index.
type SetInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	ReleaseDate string `json:"release_date"`
	CardCount   int    `json:"card_count"`
}

// CardImages holds the CDN URLs for a card's artwork variants. The loader
// checks well-formedness only, never the bytes behind them.
type CardImages struct {
	ArtworkURL string `json:"artwork_url"`
	SmallURL   string `json:"small_url"`
	CroppedURL string `json:"cropped_url"`
}

// ModSpecific carries the mod's gameplay metadata for a card.
type ModSpecific struct {
	RarityTier      RarityTier `json:"rarity_tier"`
	PackWeight      float64    `json:"pack_weight"`
	Craftable       bool       `json:"craftable"`
	UnlockCondition string     `json:"unlock_condition"`
	Tags            []string   `json:"tags"`
}

// RarityTier is the closed rarity classification used for pack weighting.
type RarityTier string

const (
	RarityCommon    RarityTier = "common"
	RarityRare      RarityTier = "rare"
	RarityEpic      RarityTier = "epic"
	RarityLegendary RarityTier = "legendary"
)

// Valid reports whether the tier is one of the four known values.
func (r RarityTier) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// Attribute is a monster card's attribute.
type Attribute string

const (
	AttributeLight  Attribute = "LIGHT"
	AttributeDark   Attribute = "DARK"
	AttributeEarth  Attribute = "EARTH"
	AttributeWater  Attribute = "WATER"
	AttributeFire   Attribute = "FIRE"
	AttributeWind   Attribute = "WIND"
	AttributeDivine Attribute = "DIVINE"
)

// Valid reports whether the attribute is one of the seven known values.
func (a Attribute) Valid() bool {
	switch a {
	case AttributeLight, AttributeDark, AttributeEarth, AttributeWater,
		AttributeFire, AttributeWind, AttributeDivine:
		return true
	}
	return false
}
