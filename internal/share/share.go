// Package share produces the read-only playlist export: a URL-safe token a
// guest can paste elsewhere. The token is base64 over a JSON array of
// (catalogId, title, artist) triples and is never consumed back into the
// queue.
package share

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// Track is the minimal display form of a queued entry.
type Track struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

var ErrInvalidToken = errors.New("invalid share token")

func Encode(tracks []Track) (string, error) {
	if tracks == nil {
		tracks = []Track{}
	}
	data, err := json.Marshal(tracks)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func Decode(token string) ([]Track, error) {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		// Browsers URL-encode '+' and '/'; accept the URL-safe alphabet too.
		data, err = base64.URLEncoding.DecodeString(token)
		if err != nil {
			return nil, ErrInvalidToken
		}
	}

	var tracks []Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, ErrInvalidToken
	}
	return tracks, nil
}
