package domain

// Staff models a maintenance staff member or vendor that can take assignments.
type Staff struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	Role        string           `json:"role" yaml:"role"`
	Specialties []TicketCategory `json:"specialties" yaml:"specialties"`
	Available   bool             `json:"available" yaml:"available"`
	Avatar      string           `json:"avatar,omitempty" yaml:"avatar"`
}

// HasSpecialty reports whether the staff member covers the category.
func (s Staff) HasSpecialty(category TicketCategory) bool {
	for _, specialty := range s.Specialties {
		if specialty == category {
			return true
		}
	}
	return false
}

// EligibleFor reports whether the staff member can take work in the
// category. An empty category matches any available staff member.
func (s Staff) EligibleFor(category TicketCategory) bool {
	if !s.Available {
		return false
	}
	return category == "" || s.HasSpecialty(category)
}
