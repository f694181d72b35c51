package domain

import "strings"

// SearchFilters is transient query state for the entry list.
type SearchFilters struct {
	StudentName   string
	ClassName     string
	VolunteerName string
}

// IsEmpty reports whether no filter field is set.
func (f SearchFilters) IsEmpty() bool {
	return strings.TrimSpace(f.StudentName) == "" && f.ClassName == "" && f.VolunteerName == ""
}

// Merge combines two filters field by field; non-empty fields of o win.
func (f SearchFilters) Merge(o SearchFilters) SearchFilters {
	return SearchFilters{
		StudentName:   CoalesceStr(o.StudentName, f.StudentName),
		ClassName:     CoalesceStr(o.ClassName, f.ClassName),
		VolunteerName: CoalesceStr(o.VolunteerName, f.VolunteerName),
	}
}
