package inventory

import "fmt"

// Item is a cosmetic inventory entry. Items have no effect on combat.
type Item struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Quantity    int    `json:"qty"`
	Description string `json:"desc"`
}

// Label is the short form shown in the inventory grid, e.g. "Potion x2".
func (i Item) Label() string {
	return fmt.Sprintf("%s x%d", i.Name, i.Quantity)
}

// Detail is the line shown when an item is selected.
func (i Item) Detail() string {
	return fmt.Sprintf("%s: %s", i.Name, i.Description)
}

// Default returns the starting inventory.
func Default() []Item {
	return []Item{
		{Name: "Sword", Icon: "assets/items/sword.png", Quantity: 1, Description: "A sharp steel blade."},
		{Name: "Potion", Icon: "assets/items/potion.png", Quantity: 2, Description: "Heals your wounds."},
		{Name: "Gold", Icon: "assets/items/gold.png", Quantity: 5, Description: "Shiny coins of value."},
	}
}
