package session

import "fmt"

// Entry is one row of the info panel. Entries without a key are static
// headings.
type Entry struct {
	Key   string
	Title string
	Value string
}

// InfoPanel is an ordered list of labelled values.
type InfoPanel struct {
	entries []Entry
	index   map[string]int
}

// NewInfoPanel returns an empty panel.
func NewInfoPanel() *InfoPanel {
	return &InfoPanel{index: make(map[string]int)}
}

// Add appends a row. With a key the row shows "-" until updated.
func (p *InfoPanel) Add(title, key string) {
	e := Entry{Key: key, Title: title}
	if key != "" {
		e.Value = "-"
		p.index[key] = len(p.entries)
	}
	p.entries = append(p.entries, e)
}

// Update replaces the value of the row with the given key.
func (p *InfoPanel) Update(key, text string) error {
	i, ok := p.index[key]
	if !ok {
		return fmt.Errorf("unknown info entry %q", key)
	}
	p.entries[i].Value = text
	return nil
}

// Value returns the value of the row with the given key.
func (p *InfoPanel) Value(key string) string {
	if i, ok := p.index[key]; ok {
		return p.entries[i].Value
	}
	return ""
}

// Entries returns a copy of all rows in display order.
func (p *InfoPanel) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}
