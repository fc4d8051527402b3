package models

type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Task struct {
	BaseModel

	ProjectID   string     `gorm:"type:varchar(36);not null;index"`
	Title       string     `gorm:"not null"`
	Description string
	Status      TaskStatus `gorm:"type:varchar(16);not null;default:'TODO'"`
	AssigneeID  *string    `gorm:"type:varchar(36);index"`

	// Relationships
	Assignee *User `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}
