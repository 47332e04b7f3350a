package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tkaster/curio/internal/log"
	"github.com/tkaster/curio/internal/registry"
)

// sseEnvelope is the JSON body of each server-sent event.
type sseEnvelope struct {
	Type    registry.EventType `json:"type"`
	Payload any                `json:"payload"`
}

// handleEvents streams outcome records as server-sent events. Processor
// bookkeeping events on the same bus are skipped; subscribers get exactly
// the records the journal gets.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events := s.bus.Subscribe(r.Context())
	for busEvent := range events {
		record, ok := busEvent.Payload.(registry.Event)
		if !ok {
			continue
		}

		body, err := json.Marshal(sseEnvelope{
			Type:    record.EventType(),
			Payload: record,
		})
		if err != nil {
			log.ErrorErr(log.CatAPI, "failed to encode sse event", err)
			continue
		}

		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", record.EventType(), body); err != nil {
			return
		}
		flusher.Flush()
	}
}
