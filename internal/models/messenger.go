package models

import "context"

// Action is an inline button attached to a message.
type Action struct {
	Text string
	Data string
}

// Messenger delivers outbound messages. Each call fails independently.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendPhotoWithActions(ctx context.Context, chatID int64, photoRef, caption string, actions [][]Action) error
}
