// Package model defines the canonical record types produced by collection
// and consumed by the warehouse load pipeline.
package model

import "time"

// Sentiment is the classified sentiment label for a video.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentUnknown  Sentiment = "UNKNOWN"
)

// Method identifies which rule produced the sentiment label.
type Method string

const (
	MethodCategoryBased Method = "CATEGORY_BASED"
	MethodKeywordBased  Method = "KEYWORD_BASED"
	MethodUncategorized Method = "UNCATEGORIZED"
)

// VideoRecord is one collected video, enriched with classification and
// engagement. Immutable once assembled; the fact table never updates it.
// A video found under two search keywords yields two records with the same
// VideoID; deduplication happens at fact merge, not here.
type VideoRecord struct {
	VideoID              string    `json:"video_id"`
	ChannelID            string    `json:"channel_id"`
	CategoryID           int       `json:"category_id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Tags                 []string  `json:"tags"`
	PublishedAt          time.Time `json:"published_at"`
	ViewCount            int64     `json:"view_count"`
	LikeCount            int64     `json:"like_count"`
	CommentCount         int64     `json:"comment_count"`
	EngagementRate       float64   `json:"engagement_rate"`
	FinalSentiment       Sentiment `json:"final_sentiment"`
	ClassificationMethod Method    `json:"classification_method"`
	PositiveKeywordCount int       `json:"positive_keyword_count"`
	NegativeKeywordCount int       `json:"negative_keyword_count"`
	SearchKeyword        string    `json:"search_keyword"`
	SearchRegion         string    `json:"search_region"`
	CollectedAt          time.Time `json:"collected_at"`
}

// CollectionDate returns the date component of CollectedAt.
func (v VideoRecord) CollectionDate() time.Time {
	return v.CollectedAt.Truncate(24 * time.Hour)
}
