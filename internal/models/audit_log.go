package models

// AuditLog records data changes made through the CLI or the API.
type AuditLog struct {
	Base
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null;index:idx_audit_logs_resource" json:"resource_type"`
	ResourceID   string `gorm:"not null;default:'';index:idx_audit_logs_resource" json:"resource_id"`
	Source       string `gorm:"not null;default:''" json:"source"`
	Changes      string `gorm:"not null;default:''" json:"changes,omitempty"`
}
