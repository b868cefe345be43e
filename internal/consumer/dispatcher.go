package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vsp-live/profile-service/internal/service"
	"github.com/vsp-live/profile-service/pkg/log"
)

// Dispatcher decodes raw queue payloads by topic and invokes the matching
// ProfileEventHandler method. It is separate from the Kafka plumbing so
// the decode-and-dispatch path is testable without a broker.
type Dispatcher struct {
	profileSetupTopic   string
	deleteUserDataTopic string
	handler             ProfileEventHandler
}

// NewDispatcher creates a dispatcher routing the two known topics.
func NewDispatcher(profileSetupTopic, deleteUserDataTopic string, handler ProfileEventHandler) *Dispatcher {
	return &Dispatcher{
		profileSetupTopic:   profileSetupTopic,
		deleteUserDataTopic: deleteUserDataTopic,
		handler:             handler,
	}
}

// Topics returns the topics the dispatcher routes.
func (d *Dispatcher) Topics() []string {
	return []string{d.profileSetupTopic, d.deleteUserDataTopic}
}

// Dispatch decodes payload according to topic and invokes the handler.
func (d *Dispatcher) Dispatch(ctx context.Context, topic string, payload []byte) error {
	switch topic {
	case d.profileSetupTopic:
		var event ProfileSetupEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("failed to unmarshal profile-setup event: %w", err)
		}
		return d.handler.HandleProfileSetup(ctx, &event)

	case d.deleteUserDataTopic:
		var event DeleteUserDataEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("failed to unmarshal delete-user-data event: %w", err)
		}
		return d.handler.HandleDeleteUserData(ctx, &event)

	default:
		return fmt.Errorf("unknown topic: %s", topic)
	}
}

// profileEventHandler bridges account events to the profile service.
type profileEventHandler struct {
	profiles service.ProfileService
}

// NewProfileEventHandler creates the ProfileEventHandler backed by the
// profile service.
func NewProfileEventHandler(profiles service.ProfileService) ProfileEventHandler {
	return &profileEventHandler{profiles: profiles}
}

// HandleProfileSetup creates the default profile for a new account.
// Redelivery creates another profile; the transport is at-least-once and
// there is no dedup key.
func (h *profileEventHandler) HandleProfileSetup(ctx context.Context, event *ProfileSetupEvent) error {
	l := log.Ctx(ctx)
	l.Info().Str(log.FieldUserID, event.UserID).Msg("received profile-setup event")

	_, err := h.profiles.CreateDefaultProfile(ctx, event.UserID, event.FirstName)
	return err
}

// HandleDeleteUserData removes all profiles for a deleted account.
func (h *profileEventHandler) HandleDeleteUserData(ctx context.Context, event *DeleteUserDataEvent) error {
	l := log.Ctx(ctx)
	l.Info().Str(log.FieldUserID, event.UserID).Msg("received delete-user-data event")

	return h.profiles.DeleteAllProfiles(ctx, event.UserID)
}
