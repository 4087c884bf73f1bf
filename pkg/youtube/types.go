package youtube

import (
	"strconv"
	"time"
)

// Wire types for the YouTube Data API v3. Statistics counts arrive as
// strings; absent counts default to zero.

type searchResponse struct {
	Items []struct {
		ID struct {
			Kind    string `json:"kind"`
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type videoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		ChannelID   string   `json:"channelId"`
		CategoryID  string   `json:"categoryId"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
		PublishedAt string   `json:"publishedAt"`
	} `json:"snippet"`
	Statistics struct {
		ViewCount    string `json:"viewCount"`
		LikeCount    string `json:"likeCount"`
		CommentCount string `json:"commentCount"`
	} `json:"statistics"`
}

type videoListResponse struct {
	Items []videoItem `json:"items"`
}

func (v videoItem) toVideo() Video {
	publishedAt, _ := time.Parse(time.RFC3339, v.Snippet.PublishedAt)
	return Video{
		ID:          v.ID,
		ChannelID:   v.Snippet.ChannelID,
		CategoryID:  int(parseCount(v.Snippet.CategoryID)),
		Title:       v.Snippet.Title,
		Description: v.Snippet.Description,
		Tags:        v.Snippet.Tags,
		PublishedAt: publishedAt,
		Views:       parseCount(v.Statistics.ViewCount),
		Likes:       parseCount(v.Statistics.LikeCount),
		Comments:    parseCount(v.Statistics.CommentCount),
	}
}

type channelItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title   string `json:"title"`
		Country string `json:"country"`
	} `json:"snippet"`
	Statistics struct {
		SubscriberCount string `json:"subscriberCount"`
		VideoCount      string `json:"videoCount"`
	} `json:"statistics"`
}

type channelListResponse struct {
	Items []channelItem `json:"items"`
}

func (c channelItem) toChannel() Channel {
	return Channel{
		ID:          c.ID,
		Title:       c.Snippet.Title,
		Country:     c.Snippet.Country,
		Subscribers: parseCount(c.Statistics.SubscriberCount),
		Videos:      parseCount(c.Statistics.VideoCount),
	}
}

func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
