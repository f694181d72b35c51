package domain

import "strings"

// NameKey is the case-insensitive identity of a student or volunteer name.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Canonicalizer maps lowercase name keys to the first display form seen.
// The zero value is not usable; call NewCanonicalizer.
type Canonicalizer struct {
	forms map[string]string
	order []string
}

// NewCanonicalizer seeds a canonicalizer with names in first-seen order.
func NewCanonicalizer(names ...string) *Canonicalizer {
	c := &Canonicalizer{forms: make(map[string]string, len(names))}
	for _, n := range names {
		c.Add(n)
	}
	return c
}

// Add records name if its key is new and returns the canonical form.
// Blank names are ignored and return "".
func (c *Canonicalizer) Add(name string) string {
	key := NameKey(name)
	if key == "" {
		return ""
	}
	if form, ok := c.forms[key]; ok {
		return form
	}
	form := strings.TrimSpace(name)
	c.forms[key] = form
	c.order = append(c.order, form)
	return form
}

// Resolve returns the canonical form for name without recording it.
// Unknown names come back trimmed.
func (c *Canonicalizer) Resolve(name string) string {
	if form, ok := c.forms[NameKey(name)]; ok {
		return form
	}
	return strings.TrimSpace(name)
}

// Names returns the canonical forms in first-seen order.
func (c *Canonicalizer) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len is the number of distinct names.
func (c *Canonicalizer) Len() int {
	return len(c.order)
}

// Normalize resolves raw against known names: the first known name that
// matches case-insensitively wins, otherwise raw is returned trimmed.
// known is not modified.
func Normalize(raw string, known []string) string {
	return NewCanonicalizer(known...).Resolve(raw)
}
