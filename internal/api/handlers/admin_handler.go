package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/nnamdiokafor/foliobot/internal/core"
	"github.com/nnamdiokafor/foliobot/internal/core/importer"
	"github.com/nnamdiokafor/foliobot/internal/core/logstore"
	"github.com/nnamdiokafor/foliobot/internal/core/secrets"
	"github.com/nnamdiokafor/foliobot/internal/models"
	"github.com/nnamdiokafor/foliobot/internal/services"
)

const maxUploadBytes = 10 << 20

// AdminHandler serves the dashboard API: profile/config editing, API key
// storage, avatar upload, résumé import, and the recent-log view.
type AdminHandler struct {
	settings  *services.SettingsService
	snapshots *services.SnapshotCache
	keys      *secrets.Resolver
	objects   core.ObjectClient // nil when S3 is not configured
	logs      *logstore.Store
}

func NewAdminHandler(settings *services.SettingsService, snapshots *services.SnapshotCache, keys *secrets.Resolver, objects core.ObjectClient, logs *logstore.Store) *AdminHandler {
	return &AdminHandler{
		settings:  settings,
		snapshots: snapshots,
		keys:      keys,
		objects:   objects,
		logs:      logs,
	}
}

func (h *AdminHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.settings.LoadProfile(r.Context())
	if err != nil {
		slog.Error("admin: loading profile failed", "error", err)
		http.Error(w, "could not load profile", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *AdminHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch models.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	profile, err := h.settings.UpdateProfile(r.Context(), patch)
	if err != nil {
		slog.Error("admin: updating profile failed", "error", err)
		http.Error(w, "could not save profile", http.StatusInternalServerError)
		return
	}
	h.snapshots.Invalidate()
	writeJSON(w, http.StatusOK, profile)
}

func (h *AdminHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.settings.LoadConfig(r.Context())
	if err != nil {
		slog.Error("admin: loading config failed", "error", err)
		http.Error(w, "could not load config", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *AdminHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var patch models.BotConfigPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	cfg, err := h.settings.UpdateConfig(r.Context(), patch)
	if err != nil {
		slog.Error("admin: updating config failed", "error", err)
		http.Error(w, "could not save config", http.StatusInternalServerError)
		return
	}
	h.snapshots.Invalidate()
	writeJSON(w, http.StatusOK, cfg)
}

type apiKeyRequest struct {
	APIKey string `json:"api_key"`
}

// PutAPIKey stores the dashboard-entered key encrypted at rest. An
// environment-set key still takes precedence at resolution time.
func (h *AdminHandler) PutAPIKey(w http.ResponseWriter, r *http.Request) {
	var req apiKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		http.Error(w, "api_key is required", http.StatusBadRequest)
		return
	}
	if err := h.keys.Save(r.Context(), strings.TrimSpace(req.APIKey)); err != nil {
		slog.Error("admin: storing api key failed", "error", err)
		http.Error(w, "could not store key", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// UploadAvatar stores the image in S3 and saves its URL onto the profile.
func (h *AdminHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if h.objects == nil {
		http.Error(w, "object storage not configured", http.StatusNotImplemented)
		return
	}
	data, contentType, filename, ok := readUpload(w, r, "avatar")
	if !ok {
		return
	}
	if !strings.HasPrefix(contentType, "image/") {
		http.Error(w, "avatar must be an image", http.StatusBadRequest)
		return
	}

	key := fmt.Sprintf("avatars/%s%s", uuid.NewString(), path.Ext(filename))
	url, err := h.objects.UploadFile(r.Context(), key, data, contentType)
	if err != nil {
		slog.Error("admin: avatar upload failed", "error", err)
		http.Error(w, "upload failed", http.StatusBadGateway)
		return
	}

	if _, err := h.settings.UpdateProfile(r.Context(), models.ProfilePatch{AvatarURL: &url}); err != nil {
		slog.Error("admin: saving avatar url failed", "error", err)
		http.Error(w, "could not save avatar url", http.StatusInternalServerError)
		return
	}
	h.snapshots.Invalidate()
	writeJSON(w, http.StatusOK, map[string]string{"avatar_url": url})
}

// ImportResume extracts text from an uploaded document and returns it as a
// draft. Nothing is applied to the profile until the owner saves it.
func (h *AdminHandler) ImportResume(w http.ResponseWriter, r *http.Request) {
	data, contentType, _, ok := readUpload(w, r, "resume")
	if !ok {
		return
	}
	draft, err := importer.ExtractDraft(data, contentType)
	if err != nil {
		slog.Warn("admin: resume extraction failed", "content_type", contentType, "error", err)
		http.Error(w, "could not extract text from document", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"draft": draft})
}

// GetLogs returns recent redacted log entries, newest last.
func (h *AdminHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	n := 100
	if q := r.URL.Query().Get("n"); q != "" {
		if parsed, err := strconv.Atoi(q); err == nil && parsed > 0 {
			n = parsed
		}
	}
	writeJSON(w, http.StatusOK, h.logs.Recent(n))
}

func readUpload(w http.ResponseWriter, r *http.Request, field string) (data []byte, contentType, filename string, ok bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return nil, "", "", false
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		http.Error(w, fmt.Sprintf("missing %q file", field), http.StatusBadRequest)
		return nil, "", "", false
	}
	defer file.Close()

	data, err = io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		http.Error(w, "could not read upload", http.StatusBadRequest)
		return nil, "", "", false
	}
	return data, header.Header.Get("Content-Type"), header.Filename, true
}
