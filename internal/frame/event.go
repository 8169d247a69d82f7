package frame

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/pfrederiksen/cc-courses/internal/tokenstore"
)

// Event names.
const (
	EventFrameAdded            = "frame_added"
	EventFrameRemoved          = "frame_removed"
	EventNotificationsEnabled  = "notifications_enabled"
	EventNotificationsDisabled = "notifications_disabled"
)

// Event is a decoded webhook payload.
type Event struct {
	Event               string              `json:"event"`
	NotificationDetails *tokenstore.Details `json:"notificationDetails,omitempty"`
}

// ParseEvent decodes and validates a verified payload.
func ParseEvent(payload []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, schemaError("", "payload is not valid JSON")
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Validate checks the event against the payload schema.
func (e *Event) Validate() error {
	switch e.Event {
	case "":
		return schemaError("event", "Required")
	case EventFrameAdded:
		if e.NotificationDetails == nil {
			return nil
		}
	case EventNotificationsEnabled:
		if e.NotificationDetails == nil {
			return schemaError("notificationDetails", "Required")
		}
	case EventFrameRemoved, EventNotificationsDisabled:
		return nil
	default:
		err := schemaError("event", fmt.Sprintf("Invalid discriminator value %q", e.Event))
		err.err = ErrUnknownEvent
		return err
	}

	var issues []Issue
	d := e.NotificationDetails
	if u, err := url.ParseRequestURI(d.URL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		issues = append(issues, Issue{Path: "notificationDetails.url", Message: "Invalid url"})
	}
	if d.Token == "" {
		issues = append(issues, Issue{Path: "notificationDetails.token", Message: "Required"})
	}
	if len(issues) > 0 {
		return &PayloadSchemaError{Issues: issues}
	}
	return nil
}
