package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/nnamdiokafor/foliobot/internal/core/pipeline"
	"github.com/nnamdiokafor/foliobot/internal/models"
	"github.com/nnamdiokafor/foliobot/internal/services"
)

const (
	maxMessageLen = 1000
	maxHistoryLen = 20
)

type ChatHandler struct {
	pipeline  *pipeline.Pipeline
	snapshots *services.SnapshotCache
}

func NewChatHandler(p *pipeline.Pipeline, snapshots *services.SnapshotCache) *ChatHandler {
	return &ChatHandler{pipeline: p, snapshots: snapshots}
}

type chatRequest struct {
	Message string            `json:"message"`
	History []models.ChatTurn `json:"history"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Chat is the public conversation endpoint. Every pipeline outcome is a
// chat-shaped body; only malformed input (400) and rate limiting (429) use
// distinct status codes.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Response: pipeline.MsgInvalidInput})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" || len([]rune(message)) > maxMessageLen {
		writeJSON(w, http.StatusBadRequest, chatResponse{Response: pipeline.MsgInvalidInput})
		return
	}
	history := req.History
	if len(history) > maxHistoryLen {
		history = history[len(history)-maxHistoryLen:]
	}

	clientID := clientIdentifier(r)
	if decision := h.pipeline.Admit(clientID); !decision.Allowed {
		msg := pipeline.MsgThrottled
		if decision.Reason == pipeline.ReasonDailyLimit {
			msg = pipeline.MsgDailyLimit
		}
		writeJSON(w, http.StatusTooManyRequests, chatResponse{Response: msg})
		return
	}

	answer := h.pipeline.Answer(r.Context(), message, history)
	writeJSON(w, http.StatusOK, chatResponse{Response: answer})
}

// PublicProfile serves the subset of the profile the page renders directly.
func (h *ChatHandler) PublicProfile(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshots.Get(r.Context())
	if err != nil {
		http.Error(w, "profile unavailable", http.StatusServiceUnavailable)
		return
	}
	p := snap.Profile
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":         p.Name,
		"title":        p.Title,
		"tagline":      p.Tagline,
		"location":     p.Location,
		"avatar_url":   p.AvatarURL,
		"social_links": p.SocialLinks,
		"projects":     p.Projects,
		"skills":       p.Skills,
	})
}

// PublicConfig serves the pieces of the bot config the chat widget needs.
func (h *ChatHandler) PublicConfig(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshots.Get(r.Context())
	if err != nil {
		http.Error(w, "config unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bot_name":      snap.Config.Personality.Name,
		"greeting":      snap.Config.Personality.Greeting,
		"quick_replies": snap.Config.QuickReplies,
	})
}

// clientIdentifier keys the rate limiter. The first X-Forwarded-For hop wins
// when a proxy fronts the service.
func clientIdentifier(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.Index(fwd, ","); idx > 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
