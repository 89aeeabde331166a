package v1

import (
	"net/http"
	"time"

	"github.com/vmunix/strmsync/internal/events"
)

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50)

	rows, err := s.deps.EventLog.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}

	resp := listEventsResponse{
		Items: make([]EventResponse, len(rows)),
		Limit: limit,
	}
	for i, e := range rows {
		resp.Items[i] = EventResponse{
			ID:         e.ID,
			EventType:  e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			OccurredAt: e.OccurredAt.Format(time.RFC3339),
		}
		// Unknown types are listed without data.
		if data, err := events.Decode(e); err == nil {
			resp.Items[i].Data = data
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
