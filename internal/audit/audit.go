package audit

import (
	"context"

	"github.com/vsp-live/profile-service/pkg/log"
)

// Audit actions for profile-service.
const (
	ActionAvatarCreate         = "avatar.create"
	ActionAvatarDelete         = "avatar.delete"
	ActionProfileCreate        = "profile.create"
	ActionProfileCreateDefault = "profile.create_default"
	ActionProfileUpdate        = "profile.update"
	ActionProfileDelete        = "profile.delete"
	ActionProfileDeleteAll     = "profile.delete_all"
)

// Field constants for audit entries.
const (
	FieldAction   = "action"
	FieldTargetID = "target_id"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action, targetID, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(FieldTargetID, targetID).
		Msg(msg)
}
