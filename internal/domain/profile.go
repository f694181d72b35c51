package domain

import "time"

// KidProfile holds contact and school details for a student, keyed by name.
// A profile with an empty ID is a placeholder synthesised for a student who
// appears in entries but has never been saved.
type KidProfile struct {
	ID        string
	Name      string
	ClassName string
	School    string
	Phone     string
	CreatedAt time.Time
}

// IsPlaceholder reports whether the profile has no persistent identity yet.
func (p *KidProfile) IsPlaceholder() bool {
	return p.ID == ""
}

// HasContacts reports whether any contact detail is recorded.
func (p *KidProfile) HasContacts() bool {
	return p.School != "" || p.Phone != ""
}
