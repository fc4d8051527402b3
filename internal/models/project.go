package models

type Project struct {
	BaseModel

	Name    string `gorm:"not null"`
	OwnerID string `gorm:"type:varchar(36);not null;index"`

	// Relationships
	Owner   User            `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Tasks   []Task          `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (p *Project) IsOwner(userID string) bool {
	return p.OwnerID == userID
}
