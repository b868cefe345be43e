package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Domain
	FieldUserID    = "user_id"
	FieldProfileID = "profile_id"
	FieldAvatarID  = "avatar_id"
	FieldObjectKey = "object_key"

	// Messaging
	FieldTopic = "topic"

	// Service
	FieldService = "service"

	// Log type (for audit entries)
	FieldLogType = "log_type"
	LogTypeAudit = "audit"
)
