package bib

// Author represents an item author. FullName is authoritative when set;
// otherwise the display name is derived from the given name and surname.
type Author struct {
	GivenName string `json:"given_name,omitempty"`
	Surname   string `json:"surname,omitempty"`
	FullName  string `json:"full_name,omitempty"`
}

// Name returns the author's display name, or "" when no name part is set.
func (a Author) Name() string {
	if a.FullName != "" {
		return a.FullName
	}
	if a.GivenName != "" && a.Surname != "" {
		return a.GivenName + " " + a.Surname
	}
	if a.Surname != "" {
		return a.Surname
	}
	return a.GivenName
}

// Empty reports whether the author has no name information at all.
func (a Author) Empty() bool {
	return a.GivenName == "" && a.Surname == "" && a.FullName == ""
}
