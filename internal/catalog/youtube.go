package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type YouTubeClient struct {
	apiKey    string
	searchURL string
	http      *http.Client
}

func NewYouTubeClient(apiKey, searchURL string) *YouTubeClient {
	return &YouTubeClient{
		apiKey:    apiKey,
		searchURL: searchURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type ytSearchResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				Default struct {
					URL string `json:"url"`
				} `json:"default"`
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// SearchTracks queries the catalog. pageToken is the opaque cursor from a
// previous page; empty means the first page. Without an API key it serves
// canned results so the app stays usable in local development.
func (c *YouTubeClient) SearchTracks(ctx context.Context, query, pageToken string, limit int) (SearchPage, error) {
	if c.apiKey == "" {
		log.Printf("partyqueue: no catalog API key, serving mock results")
		return mockSearch(query), nil
	}

	if limit <= 0 || limit > 25 {
		limit = 10
	}

	val := url.Values{}
	val.Set("part", "snippet")
	val.Set("type", "video")
	val.Set("maxResults", fmt.Sprint(limit))
	val.Set("q", query)
	val.Set("key", c.apiKey)
	if pageToken != "" {
		val.Set("pageToken", pageToken)
	}

	reqURL := c.searchURL + "?" + val.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return SearchPage{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return SearchPage{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SearchPage{}, fmt.Errorf("youtube status %d", resp.StatusCode)
	}

	var body ytSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return SearchPage{}, err
	}

	page := SearchPage{
		Items:         make([]SearchItem, 0, len(body.Items)),
		NextPageToken: body.NextPageToken,
	}
	var videoIDs []string

	for _, it := range body.Items {
		thumbs := it.Snippet.Thumbnails
		thumb := thumbs.High.URL
		if thumb == "" {
			thumb = thumbs.Medium.URL
		}
		if thumb == "" {
			thumb = thumbs.Default.URL
		}

		page.Items = append(page.Items, SearchItem{
			CatalogID:    it.ID.VideoID,
			Title:        it.Snippet.Title,
			Artist:       it.Snippet.ChannelTitle,
			ThumbnailURL: thumb,
		})
		videoIDs = append(videoIDs, it.ID.VideoID)
	}

	// Durations and view counts come from the videos endpoint; a failure
	// there degrades the results instead of failing the search.
	if len(videoIDs) > 0 {
		details, err := c.fetchDetails(ctx, videoIDs)
		if err == nil {
			for i := range page.Items {
				if d, ok := details[page.Items[i].CatalogID]; ok {
					page.Items[i].DurationMs = d.durationMs
					page.Items[i].ViewCount = d.viewCount
				}
			}
		} else {
			log.Printf("partyqueue: youtube fetch details: %v", err)
		}
	}

	return page, nil
}

type videoDetails struct {
	durationMs int
	viewCount  int64
}

type ytVideosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func (c *YouTubeClient) fetchDetails(ctx context.Context, ids []string) (map[string]videoDetails, error) {
	val := url.Values{}
	val.Set("part", "contentDetails,statistics")
	val.Set("id", strings.Join(ids, ","))
	val.Set("key", c.apiKey)

	reqURL := c.videosURL() + "?" + val.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube videos status %d", resp.StatusCode)
	}

	var body ytVideosResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	details := make(map[string]videoDetails)
	for _, item := range body.Items {
		views, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
		details[item.ID] = videoDetails{
			durationMs: parseISO8601Duration(item.ContentDetails.Duration),
			viewCount:  views,
		}
	}
	return details, nil
}

// videosURL derives the videos endpoint from the configured search endpoint
// so tests and alternate deployments only configure one base.
func (c *YouTubeClient) videosURL() string {
	if strings.HasSuffix(c.searchURL, "/search") {
		return strings.TrimSuffix(c.searchURL, "/search") + "/videos"
	}
	return "https://www.googleapis.com/youtube/v3/videos"
}

func parseISO8601Duration(duration string) int {
	// PT#H#M#S with any part optional.
	re := regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)
	matches := re.FindStringSubmatch(duration)

	if len(matches) < 4 {
		return 0
	}

	var h, m, s int
	fmt.Sscanf(matches[1], "%d", &h)
	fmt.Sscanf(matches[2], "%d", &m)
	fmt.Sscanf(matches[3], "%d", &s)

	return (h*3600 + m*60 + s) * 1000
}

func mockSearch(query string) SearchPage {
	canned := []SearchItem{
		{CatalogID: "y6120QOlsfU", Title: "Bohemian Rhapsody", Artist: "Queen", ThumbnailURL: "https://i.ytimg.com/vi/y6120QOlsfU/mqdefault.jpg"},
		{CatalogID: "dQw4w9WgXcQ", Title: "Never Gonna Give You Up", Artist: "Rick Astley", ThumbnailURL: "https://i.ytimg.com/vi/dQw4w9WgXcQ/mqdefault.jpg"},
		{CatalogID: "9bZkp7q19f0", Title: "Smells Like Teen Spirit", Artist: "Nirvana", ThumbnailURL: "https://i.ytimg.com/vi/9bZkp7q19f0/mqdefault.jpg"},
		{CatalogID: "P01-Qo-aI8E", Title: "Africa", Artist: "TOTO", ThumbnailURL: "https://i.ytimg.com/vi/P01-Qo-aI8E/mqdefault.jpg"},
	}

	q := strings.ToLower(query)
	var page SearchPage
	for _, item := range canned {
		if strings.Contains(strings.ToLower(item.Title), q) ||
			strings.Contains(strings.ToLower(item.Artist), q) {
			page.Items = append(page.Items, item)
		}
	}
	return page
}
