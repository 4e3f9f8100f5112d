package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventKind discriminates the typed realtime events delivered over the push
// channel.
type EventKind string

const (
	// EventConnected is sent once by the server after the websocket opens.
	EventConnected EventKind = "connected"

	// EventDocumentUpdated signals that some device wrote a document.
	EventDocumentUpdated EventKind = "document:updated"

	// EventDocumentDeleted signals a document soft-delete.
	EventDocumentDeleted EventKind = "document:deleted"

	// EventFolderUpdated signals that some device wrote a folder.
	EventFolderUpdated EventKind = "folder:updated"

	// EventFolderDeleted signals a folder soft-delete.
	EventFolderDeleted EventKind = "folder:deleted"

	// EventHeartbeat is a periodic liveness ping. Diagnostics only.
	EventHeartbeat EventKind = "heartbeat"
)

// RealtimeEvent is one push-channel message. Delivery is at-most-once per
// physical message and may arrive duplicated or out of order across
// reconnects; consumers must treat every change event as "something changed,
// re-fetch", never as an incremental state patch.
type RealtimeEvent struct {
	// Kind discriminates the event payload.
	Kind EventKind `json:"type"`

	// ConnectionID is set on EventConnected.
	ConnectionID string `json:"connectionId,omitempty"`

	// EntityID is set on document/folder change events.
	EntityID string `json:"entityId,omitempty"`

	// DeviceID is the originating device's session id, when the server
	// includes it. A client drops events carrying its own device id.
	DeviceID string `json:"deviceId,omitempty"`

	// Timestamp is the server-side emission time.
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// EntityType maps a change event to the entity kind it refers to.
// Returns false for events that do not reference an entity.
func (e *RealtimeEvent) EntityType() (EntityType, bool) {
	switch e.Kind {
	case EventDocumentUpdated, EventDocumentDeleted:
		return EntityDocument, true
	case EventFolderUpdated, EventFolderDeleted:
		return EntityFolder, true
	default:
		return "", false
	}
}

// DecodeRealtimeEvent parses a raw websocket frame into a typed event.
// Unknown kinds are rejected so protocol drift is caught loudly.
func DecodeRealtimeEvent(data []byte) (RealtimeEvent, error) {
	var ev RealtimeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return RealtimeEvent{}, fmt.Errorf("decode realtime event: %w", err)
	}

	switch ev.Kind {
	case EventConnected, EventDocumentUpdated, EventDocumentDeleted,
		EventFolderUpdated, EventFolderDeleted, EventHeartbeat:
		return ev, nil
	default:
		return RealtimeEvent{}, fmt.Errorf("unknown realtime event kind %q", ev.Kind)
	}
}
