package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nnamdiokafor/foliobot/internal/core"
	db "github.com/nnamdiokafor/foliobot/internal/core/database"
	"github.com/nnamdiokafor/foliobot/internal/core/logstore"
	"github.com/nnamdiokafor/foliobot/internal/core/secrets"
	"github.com/nnamdiokafor/foliobot/internal/models"
	"github.com/nnamdiokafor/foliobot/internal/services"
)

func newAdminHandler(t *testing.T) (*AdminHandler, core.DbClient) {
	t.Helper()
	store := db.NewMemoryClient()
	settings := services.NewSettingsService(store)
	snapshots := services.NewSnapshotCache(settings, time.Minute)
	keys := secrets.NewResolver("", "test-master", store)
	logs := logstore.NewStore(50)
	return NewAdminHandler(settings, snapshots, keys, nil, logs), store
}

func TestUpdateProfile_PartialPatch(t *testing.T) {
	h, _ := newAdminHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/admin/profile", bytes.NewBufferString(`{"name":"Ada Obi"}`))
	h.UpdateProfile(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first patch: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/admin/profile", bytes.NewBufferString(`{"tagline":"Ship it simple."}`))
	h.UpdateProfile(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("second patch: status = %d", rec.Code)
	}

	var profile models.Profile
	if err := json.NewDecoder(rec.Body).Decode(&profile); err != nil {
		t.Fatal(err)
	}
	if profile.Name != "Ada Obi" || profile.Tagline != "Ship it simple." {
		t.Errorf("patches should accumulate: %+v", profile)
	}
}

func TestUpdateConfig_InvalidBody(t *testing.T) {
	h, _ := newAdminHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/admin/config", bytes.NewBufferString(`{`))
	h.UpdateConfig(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPutAPIKey_StoresEncrypted(t *testing.T) {
	h, store := newAdminHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/admin/apikey", bytes.NewBufferString(`{"api_key":"AIzaSy-test"}`))
	h.PutAPIKey(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	ciphertext, err := store.GetSecret(context.Background(), core.SecretGeminiKey)
	if err != nil {
		t.Fatal(err)
	}
	if len(ciphertext) == 0 {
		t.Fatal("no ciphertext stored")
	}
	if bytes.Contains(ciphertext, []byte("AIzaSy-test")) {
		t.Fatal("api key stored in plaintext")
	}
}

func TestPutAPIKey_RejectsEmpty(t *testing.T) {
	h, _ := newAdminHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/admin/apikey", bytes.NewBufferString(`{"api_key":"  "}`))
	h.PutAPIKey(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUploadAvatar_WithoutObjectStorage(t *testing.T) {
	h, _ := newAdminHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/avatar", nil)
	h.UploadAvatar(rec, req)
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501 when S3 is not configured", rec.Code)
	}
}

func TestGetLogs_ReturnsRedactedEntries(t *testing.T) {
	h, _ := newAdminHandler(t)

	logger := slog.New(logstore.NewHandler(h.logs, nil))
	logger.Error("model call failed", "api_key", "leaky", "model", "gemini-2.0-flash")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/logs?n=10", nil)
	h.GetLogs(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var entries []logstore.Entry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Attrs["api_key"] != "[redacted]" {
		t.Errorf("sensitive attr leaked: %v", entries[0].Attrs)
	}
	if entries[0].Attrs["model"] != "gemini-2.0-flash" {
		t.Errorf("normal attr mangled: %v", entries[0].Attrs)
	}
}
