package catalog

// SearchItem is one candidate track returned by the catalog. Duration and
// view count are only present when the catalog reports them; the UI omits
// the field otherwise.
type SearchItem struct {
	CatalogID    string `json:"catalogId"`
	Title        string `json:"title"`
	Artist       string `json:"artist"` // channel / artist name
	ThumbnailURL string `json:"thumbnailUrl"`
	DurationMs   int    `json:"durationMs,omitempty"`
	ViewCount    int64  `json:"viewCount,omitempty"`
}

// SearchPage is one page of results plus the opaque cursor for the next one.
type SearchPage struct {
	Items         []SearchItem `json:"items"`
	NextPageToken string       `json:"nextPageToken,omitempty"`
}
