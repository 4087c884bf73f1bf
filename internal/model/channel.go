package model

// CountryUnknown is the placeholder country for channels that do not
// publish one.
const CountryUnknown = "UNKNOWN"

// ChannelRecord is a point-in-time snapshot of a channel. Only the latest
// snapshot survives in the dimension table; older ones are superseded.
type ChannelRecord struct {
	ChannelID       string `json:"channel_id"`
	ChannelTitle    string `json:"channel_title"`
	ChannelCountry  string `json:"channel_country"`
	SubscriberCount int64  `json:"subscriber_count"`
	VideoCount      int64  `json:"video_count"`
}
