package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// keyMap represents key map data used by this package.
type keyMap struct {
	quit       key.Binding
	toggleHelp key.Binding
	addMember  key.Binding
	addTask    key.Binding
	switchList key.Binding
	moveUp     key.Binding
	moveDown   key.Binding
	deleteItem key.Binding
	spin       key.Binding
	reset      key.Binding
	copyResult key.Binding
}

// KeyConfig holds configurable key overrides. Blank fields keep defaults.
type KeyConfig struct {
	Spin  string
	Reset string
	Copy  string
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		addMember:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "add member")),
		addTask:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "add task")),
		switchList: key.NewBinding(key.WithKeys("tab", "h", "l", "left", "right"), key.WithHelp("tab", "switch list")),
		moveUp:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		moveDown:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		deleteItem: key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete selected")),
		spin:       key.NewBinding(key.WithKeys("s", " ", "space"), key.WithHelp("s/space", "spin")),
		reset:      key.NewBinding(key.WithKeys("R", "shift+r"), key.WithHelp("R", "reset")),
		copyResult: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy results")),
	}
}

// applyConfig applies configured key overrides.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	if strings.TrimSpace(cfg.Spin) != "" {
		configureBinding(&k.spin, cfg.Spin, "s", "spin")
	}
	configureBinding(&k.reset, cfg.Reset, "R", "reset")
	configureBinding(&k.copyResult, cfg.Copy, "y", "copy results")
}

// configureBinding replaces one binding's keys and help text.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, help := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(help, desc)
}

// parseBindingKeys converts one configured key into matcher keys and help text.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	value := strings.TrimSpace(raw)
	if value == "" {
		value = strings.TrimSpace(fallback)
	}
	if strings.EqualFold(value, "space") || raw == " " {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(value) == 1 {
		r, _ := utf8.DecodeRuneInString(value)
		if unicode.IsUpper(r) {
			return []string{value, "shift+" + string(unicode.ToLower(r))}, value
		}
		return []string{value}, value
	}
	return []string{strings.ToLower(value)}, value
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addMember, k.addTask, k.deleteItem, k.spin, k.reset, k.copyResult, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.addMember, k.addTask, k.deleteItem, k.switchList, k.moveUp, k.moveDown},
		{k.spin, k.reset, k.copyResult},
		{k.toggleHelp, k.quit},
	}
}
