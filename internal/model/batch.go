package model

import "time"

// Batch is the full output of one collection run. Channels are deduplicated
// by channel id; videos are not (cross-keyword duplicates are forwarded).
type Batch struct {
	Videos      []VideoRecord   `json:"videos"`
	Channels    []ChannelRecord `json:"channels"`
	CollectedAt time.Time       `json:"collected_at"`
}

// BatchMetadata summarizes a published batch. Written alongside the video
// and channel payloads for operators inspecting the object store.
type BatchMetadata struct {
	CollectionDate string   `json:"collection_date"`
	CollectionTime string   `json:"collection_time"`
	TotalVideos    int      `json:"total_videos"`
	TotalChannels  int      `json:"total_channels"`
	Regions        []string `json:"regions"`
	Keywords       []string `json:"keywords"`
}
