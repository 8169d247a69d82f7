package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/pfrederiksen/cc-courses/internal/frame"
	"github.com/pfrederiksen/cc-courses/internal/logger"
)

const maxWebhookBody = 64 << 10

type webhookResponse struct {
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	Errors  []frame.Issue `json:"errors,omitempty"`
}

// Welcome notifications sent when a user adds the frame or enables
// notifications.
var (
	frameAddedNotification = frame.Notification{
		Title: "Welcome to Frames v2",
		Body:  "Frame is now added to your client",
	}
	notificationsEnabledNotification = frame.Notification{
		Title: "Ding ding ding",
		Body:  "Notifications are now enabled",
	}
)

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, webhookResponse{Errors: []frame.Issue{{Message: "unreadable request body"}}})
		return
	}

	env, err := frame.ParseEnvelope(body)
	if err != nil {
		if errors.Is(err, frame.ErrSignatureInvalid) {
			rejectSignature(w, err)
			return
		}
		writeSchemaError(w, err)
		return
	}

	verified, err := s.opts.Verifier.Verify(r.Context(), env)
	if err != nil {
		if errors.Is(err, frame.ErrSignatureInvalid) {
			rejectSignature(w, err)
			return
		}
		logger.Error("verifying webhook signature", nil, err)
		writeJSON(w, http.StatusInternalServerError, webhookResponse{})
		return
	}

	ev, err := frame.ParseEvent(verified.Payload)
	if err != nil {
		writeSchemaError(w, err)
		return
	}

	logger.IncrCounter("webhook." + ev.Event)
	s.dispatch(r.Context(), verified.FID, ev)

	writeJSON(w, http.StatusOK, webhookResponse{Success: true})
}

func rejectSignature(w http.ResponseWriter, err error) {
	logger.Warn("rejected webhook signature", logger.Fields{"reason": err.Error()})
	writeJSON(w, http.StatusUnauthorized, webhookResponse{Error: err.Error()})
}

func writeSchemaError(w http.ResponseWriter, err error) {
	var schemaErr *frame.PayloadSchemaError
	if !errors.As(err, &schemaErr) {
		schemaErr = &frame.PayloadSchemaError{Issues: []frame.Issue{{Message: err.Error()}}}
	}
	writeJSON(w, http.StatusBadRequest, webhookResponse{Errors: schemaErr.Issues})
}

// dispatch applies a verified event. Failures are logged; the webhook has
// already been accepted.
func (s *Server) dispatch(ctx context.Context, fid int64, ev *frame.Event) {
	fields := logger.Fields{"fid": fid, "event": ev.Event}

	switch ev.Event {
	case frame.EventFrameAdded:
		if ev.NotificationDetails == nil {
			logger.Info("frame added without notification details", fields)
			s.deleteDetails(ctx, fid, fields)
			return
		}
		logger.Info("frame added", fields)
		if s.storeDetails(ctx, fid, ev, fields) {
			s.notify(ctx, fid, frameAddedNotification, fields)
		}

	case frame.EventNotificationsEnabled:
		logger.Info("notifications enabled", fields)
		if s.storeDetails(ctx, fid, ev, fields) {
			s.notify(ctx, fid, notificationsEnabledNotification, fields)
		}

	case frame.EventFrameRemoved, frame.EventNotificationsDisabled:
		logger.Info("removing notification details", fields)
		s.deleteDetails(ctx, fid, fields)
	}
}

func (s *Server) storeDetails(ctx context.Context, fid int64, ev *frame.Event, fields logger.Fields) bool {
	if err := s.opts.Store.Set(ctx, fid, *ev.NotificationDetails); err != nil {
		logger.Error("storing notification details", fields, err)
		return false
	}
	return true
}

func (s *Server) deleteDetails(ctx context.Context, fid int64, fields logger.Fields) {
	if err := s.opts.Store.Delete(ctx, fid); err != nil {
		logger.Error("deleting notification details", fields, err)
	}
}

func (s *Server) notify(ctx context.Context, fid int64, n frame.Notification, fields logger.Fields) {
	if s.opts.Notifier == nil {
		return
	}
	state, err := s.opts.Notifier.Send(ctx, fid, n)
	if err != nil {
		logger.Error("sending frame notification", fields, err)
		return
	}
	logger.Info("sent frame notification", logger.Fields{"fid": fid, "state": string(state)})
}
