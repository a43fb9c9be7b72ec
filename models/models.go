package models

// HasBadge reports whether the profile already holds a badge by id
func (p *Profile) HasBadge(badgeID string) bool {
	for _, b := range p.Badges {
		if b.ID == badgeID {
			return true
		}
	}
	return false
}

// EnabledHabitCount counts habits currently toggled on
func (p *Profile) EnabledHabitCount() int {
	count := 0
	for _, enabled := range p.SecurityHabits {
		if enabled {
			count++
		}
	}
	return count
}

// SecurityScore is the percentage of habits currently enabled, rounded down.
// Returns 0 for an empty habit map.
func (p *Profile) SecurityScore() int {
	if len(p.SecurityHabits) == 0 {
		return 0
	}
	return p.EnabledHabitCount() * 100 / len(p.SecurityHabits)
}
