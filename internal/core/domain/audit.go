package domain

// AuditRecord is the structured event the posting engine hands to an external
// audit sink. The engine triggers audit emission but does not store records.
type AuditRecord struct {
	Action     string            `json:"action"`
	TargetType string            `json:"targetType"`
	TargetID   string            `json:"targetID"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}
