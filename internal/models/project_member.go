package models

// ProjectMember is a non-owner collaborator. The owner never has a row here.
type ProjectMember struct {
	BaseModel

	ProjectID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_project_user"`
	UserID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_project_user;index"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
