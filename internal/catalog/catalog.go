// Package catalog holds the immutable in-memory aggregation of all
// successfully loaded card sets.
package catalog

import (
	"github.com/JustBryant/YGOMod-Card-Database/internal/model"
)

// Catalog maps set id to its loaded cards and carries every non-fatal
// issue recorded during the load. A catalog is never mutated after the
// loader hands it out; a refresh builds a new one and swaps it wholesale.
type Catalog struct {
	info   model.RepositoryInfo
	order  []string
	sets   map[string]model.CardSet
	byCard map[int]cardRef
	issues []Issue
}

type cardRef struct {
	setID string
	pos   int
}

// Builder assembles a catalog set by set. It is used by exactly one
// goroutine; the loader joins all fetches before building.
type Builder struct {
	cat *Catalog
}

// NewBuilder starts a catalog for the given repository metadata.
func NewBuilder(info model.RepositoryInfo) *Builder {
	return &Builder{cat: &Catalog{
		info:   info,
		sets:   make(map[string]model.CardSet),
		byCard: make(map[int]cardRef),
	}}
}

// AddSet registers a validated set. Cards whose id is already present in an
// earlier set are kept in the set but excluded from the global card index;
// their ids are returned so the caller can record warnings. First write
// wins across the whole repository.
func (b *Builder) AddSet(set model.CardSet) (duplicates []int) {
	id := set.SetInfo.ID
	b.cat.order = append(b.cat.order, id)
	b.cat.sets[id] = set
	for pos, card := range set.Cards {
		if _, taken := b.cat.byCard[card.ID]; taken {
			duplicates = append(duplicates, card.ID)
			continue
		}
		b.cat.byCard[card.ID] = cardRef{setID: id, pos: pos}
	}
	return duplicates
}

// Record appends non-fatal issues to the catalog.
func (b *Builder) Record(issues ...Issue) {
	b.cat.issues = append(b.cat.issues, issues...)
}

// Build finalizes the catalog. The builder must not be used afterwards.
func (b *Builder) Build() *Catalog {
	cat := b.cat
	b.cat = nil
	return cat
}

// Info returns the repository metadata from the index document.
func (c *Catalog) Info() model.RepositoryInfo {
	return c.info
}

// SetIDs returns the ids of all loaded sets in index order.
func (c *Catalog) SetIDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// Set returns the set with the given id.
func (c *Catalog) Set(id string) (model.CardSet, bool) {
	set, ok := c.sets[id]
	return set, ok
}

// Card resolves a card by its repository-wide id. When the same id appears
// in more than one set, the first-loaded occurrence is returned.
func (c *Catalog) Card(id int) (model.Card, bool) {
	ref, ok := c.byCard[id]
	if !ok {
		return model.Card{}, false
	}
	return c.sets[ref.setID].Cards[ref.pos], true
}

// NumSets returns the number of loaded sets.
func (c *Catalog) NumSets() int {
	return len(c.order)
}

// NumCards returns the number of distinct card ids in the catalog.
func (c *Catalog) NumCards() int {
	return len(c.byCard)
}

// Issues returns every non-fatal finding recorded during the load.
func (c *Catalog) Issues() []Issue {
	out := make([]Issue, len(c.issues))
	copy(out, c.issues)
	return out
}

// Consistent reports whether the load finished without a single issue of
// any severity.
func (c *Catalog) Consistent() bool {
	return len(c.issues) == 0
}

// Search returns cards matching the given filters in index order. Empty
// filter values match everything.
func (c *Catalog) Search(archetype string, rarity model.RarityTier) []model.Card {
	var out []model.Card
	for _, id := range c.order {
		for _, card := range c.sets[id].Cards {
			if archetype != "" && card.Archetype != archetype {
				continue
			}
			if rarity != "" && card.ModSpecific.RarityTier != rarity {
				continue
			}
			out = append(out, card)
		}
	}
	return out
}
