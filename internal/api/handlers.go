package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"slidesync/internal/auth"
	"slidesync/internal/metrics"
	"slidesync/internal/models"
	"slidesync/internal/session"
	"slidesync/internal/snapshot"
)

// Close codes sent by the connection gate.
const (
	CloseAuthRequired = 4001
	CloseTokenExpired = 4002
)

type Handlers struct {
	log       *zap.Logger
	hub       *session.Hub
	verifier  auth.Verifier
	snapshots snapshot.Store
	upgrader  websocket.Upgrader
}

func NewHandlers(log *zap.Logger, hub *session.Hub, verifier auth.Verifier, snapshots snapshot.Store) *Handlers {
	return &Handlers{
		log:       log,
		hub:       hub,
		verifier:  verifier,
		snapshots: snapshots,
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

// CollabWS is the collaboration transport: authenticate the upgrade, attach
// the connection to its room, then relay document updates until the socket
// closes.
func (h *Handlers) CollabWS(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	claims, authErr := h.verifier.Verify(r.URL.Query().Get("token"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if authErr != nil {
		h.rejectHandshake(conn, sessionID, authErr)
		return
	}

	client := session.NewClient(conn, session.Principal{UserID: claims.UserID, Role: claims.Role})
	room := h.hub.Attach(session.RoomName(sessionID), client)
	metrics.ActiveConnections.Inc()
	metrics.ActiveRooms.Set(float64(h.hub.Len()))

	h.log.Info("participant joined",
		zap.String("session", sessionID),
		zap.String("user", claims.UserID),
		zap.String("role", claims.Role),
		zap.Int("participants", room.Count()),
	)

	defer func() {
		destroyed := h.hub.Detach(room, client)
		metrics.ActiveConnections.Dec()
		metrics.ActiveRooms.Set(float64(h.hub.Len()))
		h.log.Info("participant left",
			zap.String("session", sessionID),
			zap.String("user", claims.UserID),
			zap.Bool("roomDestroyed", destroyed),
		)
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			// Socket errors and clean closes end the connection's lifetime
			// the same way.
			return
		}

		var frame models.WSFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			metrics.FramesDropped.Inc()
			h.log.Warn("dropping malformed frame", zap.String("session", sessionID), zap.Error(err))
			continue
		}

		switch frame.Type {
		case models.FrameUpdate:
			var up models.UpdatePayload
			if err := remarshal(frame.Data, &up); err != nil || len(up.Update) == 0 {
				metrics.FramesDropped.Inc()
				h.log.Warn("dropping malformed update", zap.String("session", sessionID), zap.Error(err))
				continue
			}
			if !room.ApplyUpdate(up.Update) {
				metrics.UpdatesDuplicate.Inc()
				continue
			}
			metrics.UpdatesMerged.Inc()
			room.Broadcast(client, models.WSFrame{Type: models.FrameUpdate, Data: up})

		default:
			client.Send(errFrame("unknown_type"))
		}
	}
}

func (h *Handlers) rejectHandshake(conn *websocket.Conn, sessionID string, authErr error) {
	code := CloseAuthRequired
	reason := "invalid token"
	label := "invalid"
	switch {
	case errors.Is(authErr, auth.ErrTokenMissing):
		reason = "authentication required"
		label = "missing_token"
	case errors.Is(authErr, auth.ErrTokenExpired):
		code = CloseTokenExpired
		reason = "token expired"
		label = "expired"
	}
	metrics.HandshakeRejections.WithLabelValues(label).Inc()
	h.log.Warn("handshake rejected",
		zap.String("session", sessionID),
		zap.Int("code", code),
		zap.String("reason", reason),
	)
	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
}

/*** Snapshot persistence: the REST-facing save/load path for slide canvases ***/

func (h *Handlers) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(data) == 0 {
		http.Error(w, "empty snapshot", http.StatusBadRequest)
		return
	}
	if err := h.snapshots.Save(r.Context(), sessionID, data); err != nil {
		h.log.Error("save snapshot failed", zap.String("session", sessionID), zap.Error(err))
		http.Error(w, "snapshot save failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "saved"})
}

func (h *Handlers) LoadSnapshot(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	data, err := h.snapshots.Load(r.Context(), sessionID)
	if errors.Is(err, snapshot.ErrNotFound) {
		http.Error(w, "snapshot not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("load snapshot failed", zap.String("session", sessionID), zap.Error(err))
		http.Error(w, "snapshot load failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

func (h *Handlers) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if err := h.snapshots.Delete(r.Context(), sessionID); err != nil {
		h.log.Error("delete snapshot failed", zap.String("session", sessionID), zap.Error(err))
		http.Error(w, "snapshot delete failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func remarshal(in any, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func errFrame(msg string) models.WSFrame { return models.WSFrame{Type: models.FrameError, Data: msg} }

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
