package player

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ItemType is a typed consumable kind. The switch helpers are exhaustive
// so a new item kind cannot ship without a name and a price row.
type ItemType string

const (
	// ItemSpeedPotion shifts a running breeding timer backward.
	ItemSpeedPotion ItemType = "SPEED_POTION"
	// ItemCooldownPotion shifts a breeding cooldown backward.
	ItemCooldownPotion ItemType = "COOLDOWN_POTION"
	// ItemTrainingBook funds one offspring training session.
	ItemTrainingBook ItemType = "TRAINING_BOOK"
)

// ErrUnknownItem rejects operations on item kinds the shop does not stock.
var ErrUnknownItem = errors.New("unknown item type")

// ItemTypes returns every stockable item kind.
func ItemTypes() []ItemType {
	return []ItemType{ItemSpeedPotion, ItemCooldownPotion, ItemTrainingBook}
}

// Valid reports whether t is a stockable kind.
func (t ItemType) Valid() bool {
	switch t {
	case ItemSpeedPotion, ItemCooldownPotion, ItemTrainingBook:
		return true
	}
	return false
}

// DisplayName returns the shop label for t.
//
// Precondition: t must be Valid.
func (t ItemType) DisplayName() string {
	switch t {
	case ItemSpeedPotion:
		return "Gestation Accelerant"
	case ItemCooldownPotion:
		return "Cooldown Elixir"
	case ItemTrainingBook:
		return "Training Manual"
	}
	panic(fmt.Sprintf("player: unknown item type %q", string(t)))
}

// Item is a stackable inventory entry.
type Item struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Type  ItemType `json:"type"`
	Count int      `json:"count"`
}

func cloneItems(in []*Item) []*Item {
	if in == nil {
		return nil
	}
	out := make([]*Item, len(in))
	for i, it := range in {
		cp := *it
		out[i] = &cp
	}
	return out
}

// HasItem reports whether at least one item of kind t is held.
func (p *Player) HasItem(t ItemType) bool {
	for _, it := range p.Inventory {
		if it.Type == t && it.Count > 0 {
			return true
		}
	}
	return false
}

// ConsumeItem removes one item of kind t, dropping depleted stacks.
func (p *Player) ConsumeItem(t ItemType) error {
	for i, it := range p.Inventory {
		if it.Type != t || it.Count <= 0 {
			continue
		}
		it.Count--
		if it.Count == 0 {
			p.Inventory = append(p.Inventory[:i:i], p.Inventory[i+1:]...)
		}
		return nil
	}
	return ErrMissingItem
}

// AddItem stacks one item of kind t into the inventory.
//
// Precondition: t must be Valid.
func (p *Player) AddItem(t ItemType) {
	for _, it := range p.Inventory {
		if it.Type == t {
			it.Count++
			return
		}
	}
	p.Inventory = append(p.Inventory, &Item{
		ID:    uuid.New().String(),
		Name:  t.DisplayName(),
		Type:  t,
		Count: 1,
	})
}
