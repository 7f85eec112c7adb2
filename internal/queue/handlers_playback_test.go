package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

func TestHandleGetPlayer(t *testing.T) {
	mockDB := &MockDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return playerStatusRow("entry-B")
		},
	}
	srv := NewServer(mockDB, nil)

	req := httptest.NewRequest("GET", "/player", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d", w.Code)
	}

	var st PlayerStatus
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("Decode response: %v", err)
	}
	if st.CurrentEntryID != "entry-B" {
		t.Errorf("Expected currentEntryId entry-B, got %q", st.CurrentEntryID)
	}
}

func TestHandleGetPlayer_NeverPlayed(t *testing.T) {
	// No row yet means the empty position, not an error.
	mockDB := &MockDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &MockRow{ScanFunc: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}
	srv := NewServer(mockDB, nil)

	req := httptest.NewRequest("GET", "/player", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d", w.Code)
	}
	var st PlayerStatus
	json.Unmarshal(w.Body.Bytes(), &st)
	if st.CurrentEntryID != "" {
		t.Errorf("Expected empty position, got %q", st.CurrentEntryID)
	}
}

func TestHandleSetPlayer_Success(t *testing.T) {
	mockDB := &MockDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			if strings.Contains(sql, "SELECT entry_id FROM queue_entries") {
				return &MockRow{
					ScanFunc: func(dest ...any) error {
						*dest[0].(*string) = "entry-B"
						return nil
					},
				}
			}
			return playerStatusRow("entry-B")
		},
	}
	srv := NewServer(mockDB, nil)

	body, _ := json.Marshal(map[string]string{"entryId": "entry-B"})
	req := httptest.NewRequest("PUT", "/player", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d. Body: %s", w.Code, w.Body.String())
	}
}

func TestHandleSetPlayer_UnknownEntry(t *testing.T) {
	mockDB := &MockDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &MockRow{ScanFunc: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}
	srv := NewServer(mockDB, nil)

	body, _ := json.Marshal(map[string]string{"entryId": "gone"})
	req := httptest.NewRequest("PUT", "/player", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 Not Found, got %d", w.Code)
	}
}

func TestHandleClearPlayer(t *testing.T) {
	mockDB := &MockDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return playerStatusRow("")
		},
	}
	srv := NewServer(mockDB, nil)

	req := httptest.NewRequest("DELETE", "/player", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204 No Content, got %d", w.Code)
	}
}

func TestHandleTrackFinished(t *testing.T) {
	srv := NewServer(&MockDB{}, nil)

	body, _ := json.Marshal(map[string]string{"entryId": "entry-B"})
	req := httptest.NewRequest("POST", "/player/finished", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202 Accepted, got %d", w.Code)
	}

	select {
	case got := <-srv.Finished():
		if got != "entry-B" {
			t.Errorf("Expected finished signal for entry-B, got %q", got)
		}
	case <-time.After(time.Second):
		t.Fatal("Finished signal never arrived")
	}
}

func TestHandleTrackFinished_MissingEntryID(t *testing.T) {
	srv := NewServer(&MockDB{}, nil)

	req := httptest.NewRequest("POST", "/player/finished", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 Bad Request, got %d", w.Code)
	}
}
