package models

// AuditLog records user write operations.
type AuditLog struct {
	Base
	UserID       string `gorm:"type:varchar(64);not null;index" json:"userId"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resourceType"`
	ResourceID   string `gorm:"type:varchar(64)" json:"resourceId"`
	IPAddress    string `json:"ipAddress"`
	Backend      string `json:"backend"`
	Changes      string `json:"changes,omitempty"`
}
