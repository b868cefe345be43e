package consumer

import "context"

// ProfileSetupEvent is published when a new user account is created.
type ProfileSetupEvent struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
}

// DeleteUserDataEvent is published when a user account is deleted.
type DeleteUserDataEvent struct {
	UserID string `json:"userId"`
}

// ProfileEventHandler handles incoming account-lifecycle events.
type ProfileEventHandler interface {
	HandleProfileSetup(ctx context.Context, event *ProfileSetupEvent) error
	HandleDeleteUserData(ctx context.Context, event *DeleteUserDataEvent) error
}

// ProfileEventConsumer defines the interface for consuming account events.
type ProfileEventConsumer interface {
	Start(ctx context.Context) error
	Close() error
}
