// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package bus is the in-process pub/sub that carries player commands and
// state changes from the controller to attached SSE streams.
package bus

import "context"

// Message is an opaque payload; publishers and subscribers agree on the type per topic.
type Message any

// Bus publishes messages to every current subscriber of a topic.
type Bus interface {
	Publish(ctx context.Context, topic string, msg Message) error
	Subscribe(ctx context.Context, topic string) (Subscriber, error)
}

// Subscriber receives messages until Close.
type Subscriber interface {
	C() <-chan Message
	Close() error
}

// Topics used by the player.
const (
	TopicCommands = "player.commands"
	TopicState    = "player.state"
)
