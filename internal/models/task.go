package models

// TeamAssignee is the sentinel assignee for work owned by the whole team.
const TeamAssignee = "team"

// Task is a unit of work on the board. The API calls these "phases".
type Task struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Phase       string `json:"phase"`
	Goal        string `json:"goal"`
	Need        string `json:"need"`
	Comments    string `json:"comments"`
	Execute     string `json:"execute"` // frequency label: One-Time, Weekly, Monthly
	Stage       string `json:"stage"`   // workflow label: Outstanding, In Process, ...
	CommentArea string `json:"commentArea"`

	// AssignedTo is the display name of the assignee, or TeamAssignee.
	AssignedTo string `json:"assigned_to" gorm:"index"`
	// AssigneeID points at the team member when the name resolved to one.
	AssigneeID *uint       `json:"assignee_id,omitempty" gorm:"index"`
	Assignee   *TeamMember `json:"-" gorm:"foreignKey:AssigneeID;constraint:OnDelete:RESTRICT"`
}

// Assign points the task at the given assignee.
func (t *Task) Assign(a Assignee) {
	t.AssignedTo = a.Name
	t.AssigneeID = a.ID
}

// References reports whether the task is assigned to m. Tasks carrying an
// explicit id match on it; tasks without one fall back to the username.
func (t *Task) References(m *TeamMember) bool {
	if t.AssigneeID != nil {
		return *t.AssigneeID == m.ID
	}
	return t.AssignedTo == m.Username
}

// TaskPatch holds the fields of a partial task update. Nil fields are left
// untouched.
type TaskPatch struct {
	Phase       *string
	Goal        *string
	Need        *string
	Comments    *string
	Execute     *string
	Stage       *string
	CommentArea *string
	Assignee    *Assignee
}

// Empty reports whether the patch changes nothing.
func (p *TaskPatch) Empty() bool {
	return len(p.Columns()) == 0
}

// Apply copies the set fields onto t.
func (p *TaskPatch) Apply(t *Task) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&t.Phase, p.Phase)
	set(&t.Goal, p.Goal)
	set(&t.Need, p.Need)
	set(&t.Comments, p.Comments)
	set(&t.Execute, p.Execute)
	set(&t.Stage, p.Stage)
	set(&t.CommentArea, p.CommentArea)
	if p.Assignee != nil {
		t.Assign(*p.Assignee)
	}
}

// Columns returns the set fields keyed by column name.
func (p *TaskPatch) Columns() map[string]any {
	cols := make(map[string]any)
	add := func(name string, v *string) {
		if v != nil {
			cols[name] = *v
		}
	}
	add("phase", p.Phase)
	add("goal", p.Goal)
	add("need", p.Need)
	add("comments", p.Comments)
	add("execute", p.Execute)
	add("stage", p.Stage)
	add("comment_area", p.CommentArea)
	if p.Assignee != nil {
		cols["assigned_to"] = p.Assignee.Name
		cols["assignee_id"] = p.Assignee.ID
	}
	return cols
}
