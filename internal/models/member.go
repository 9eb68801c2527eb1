package models

// DefaultOrg is the organisation given to invited members that name none.
const DefaultOrg = "PHG"

// TeamMember is a person tasks can be assigned to.
type TeamMember struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Username   string `json:"username" gorm:"index;not null"`
	Email      string `json:"email"`
	Org        string `json:"org"`
	NotWorking bool   `json:"not_working"`
}

// Assignee is the resolved target of an assignment.
type Assignee struct {
	ID   *uint
	Name string
}

// TeamAssigneeTarget returns the sentinel assignee.
func TeamAssigneeTarget() Assignee {
	return Assignee{Name: TeamAssignee}
}

// AssigneeFor returns an assignee pointing at m.
func AssigneeFor(m *TeamMember) Assignee {
	id := m.ID
	return Assignee{ID: &id, Name: m.Username}
}

// IsTeam reports whether the assignee is the team sentinel.
func (a Assignee) IsTeam() bool {
	return a.ID == nil && a.Name == TeamAssignee
}
