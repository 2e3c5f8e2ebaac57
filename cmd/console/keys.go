package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Countable   key.Binding
	Uncountable key.Binding
	Start       key.Binding
	Hint        key.Binding
	Inventory   key.Binding
	Prev        key.Binding
	Next        key.Binding
	Copy        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Countable: key.NewBinding(
			key.WithKeys("c", "C"),
			key.WithHelp("c", "countable"),
		),
		Uncountable: key.NewBinding(
			key.WithKeys("u", "U"),
			key.WithHelp("u", "uncountable"),
		),
		Start: key.NewBinding(
			key.WithKeys(" ", "s"),
			key.WithHelp("space/s", "start"),
		),
		Hint: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hint"),
		),
		Inventory: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "inventory"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "prev item"),
			key.WithDisabled(),
		),
		Next: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next item"),
			key.WithDisabled(),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy score"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Countable, k.Uncountable, k.Start, k.Hint, k.Inventory, k.Prev, k.Next, k.Copy, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Countable, k.Uncountable, k.Start, k.Hint},
		{k.Inventory, k.Prev, k.Next, k.Copy, k.Quit},
	}
}
