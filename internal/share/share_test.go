package share

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tracks := []Track{
		{ID: "y6120QOlsfU", Title: "Bohemian Rhapsody", Artist: "Queen"},
		{ID: "dQw4w9WgXcQ", Title: "Never Gonna Give You Up", Artist: "Rick Astley"},
	}

	token, err := Encode(tracks)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 tracks, got %d", len(got))
	}
	if got[0] != tracks[0] || got[1] != tracks[1] {
		t.Errorf("Round trip mismatch: %+v", got)
	}
}

func TestEncode_EmptyQueue(t *testing.T) {
	token, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// A token for an empty queue still decodes to an empty list, not an error.
	got, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no tracks, got %+v", got)
	}
}

func TestDecode_TokenFormat(t *testing.T) {
	// Tokens are base64 over a plain JSON array so links stay compatible
	// across clients.
	token := base64.StdEncoding.EncodeToString(
		[]byte(`[{"id":"abc123","title":"Africa","artist":"TOTO"}]`),
	)

	got, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 1 || got[0].ID != "abc123" || got[0].Artist != "TOTO" {
		t.Errorf("Unexpected tracks: %+v", got)
	}
}

func TestDecode_URLSafeAlphabet(t *testing.T) {
	payload := []byte(`[{"id":"a?b>c","title":"x","artist":"y"}]`)
	token := base64.URLEncoding.EncodeToString(payload)

	if _, err := Decode(token); err != nil {
		t.Errorf("Expected URL-safe token to decode, got %v", err)
	}
}

func TestDecode_InvalidToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"base64 but not json", base64.StdEncoding.EncodeToString([]byte("hello"))},
		{"json but not an array", base64.StdEncoding.EncodeToString([]byte(`{"id":"x"}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
