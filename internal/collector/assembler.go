// Package collector assembles daily batches of canonical video and channel
// records from the upstream catalog.
package collector

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tubepulse/tubepulse-cli/internal/classify"
	"github.com/tubepulse/tubepulse-cli/internal/model"
	"github.com/tubepulse/tubepulse-cli/pkg/youtube"
)

// maxSearchConcurrency bounds the region×keyword fan-out.
const maxSearchConcurrency = 4

// Assembler turns catalog search results into a Batch of classified,
// engagement-scored records.
type Assembler struct {
	client           youtube.Client
	rules            classify.Rules
	regions          []string
	keywords         []string
	videosPerKeyword int
	now              func() time.Time
}

// NewAssembler creates an Assembler over the given catalog client and
// immutable rule set.
func NewAssembler(client youtube.Client, rules classify.Rules, regions, keywords []string, videosPerKeyword int) *Assembler {
	return &Assembler{
		client:           client,
		rules:            rules,
		regions:          regions,
		keywords:         keywords,
		videosPerKeyword: videosPerKeyword,
		now:              time.Now,
	}
}

// Collect runs every region×keyword search, fetches details, and assembles
// the batch. A video surfacing under two combinations yields two records
// with distinct search_keyword/search_region; deduplication is deferred to
// the fact merge. Channels are deduplicated before the detail lookup, so the
// channel set has exactly one entry per distinct channel id.
//
// Malformed upstream records are skipped with a warning; a failed search for
// one combination skips that combination, not the run.
func (a *Assembler) Collect(ctx context.Context) (*model.Batch, error) {
	log := zap.L().With(zap.String("component", "collector"))
	collectedAt := a.now().UTC()

	type combo struct {
		region, keyword string
	}
	var combos []combo
	for _, region := range a.regions {
		for _, keyword := range a.keywords {
			combos = append(combos, combo{region: region, keyword: keyword})
		}
	}

	var mu sync.Mutex
	var videos []model.VideoRecord
	channelIDs := make(map[string]bool)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxSearchConcurrency)

	for _, cb := range combos {
		g.Go(func() error {
			ids, err := a.client.SearchVideos(gCtx, cb.keyword, cb.region, a.videosPerKeyword)
			if err != nil {
				log.Warn("search failed, skipping combination",
					zap.String("keyword", cb.keyword),
					zap.String("region", cb.region),
					zap.Error(err),
				)
				return nil
			}
			if len(ids) == 0 {
				return nil
			}

			details, err := a.client.VideoDetails(gCtx, ids)
			if err != nil {
				log.Warn("video details failed, skipping combination",
					zap.String("keyword", cb.keyword),
					zap.String("region", cb.region),
					zap.Error(err),
				)
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			for _, v := range details {
				if v.ID == "" || v.ChannelID == "" {
					log.Warn("skipping malformed video record",
						zap.String("video_id", v.ID),
						zap.String("keyword", cb.keyword),
					)
					continue
				}
				videos = append(videos, a.assembleVideo(v, cb.keyword, cb.region, collectedAt))
				channelIDs[v.ChannelID] = true
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "collector: search fan-out")
	}

	log.Info("video collection complete",
		zap.Int("videos", len(videos)),
		zap.Int("channels", len(channelIDs)),
	)

	channels, err := a.collectChannels(ctx, channelIDs)
	if err != nil {
		return nil, err
	}

	return &model.Batch{
		Videos:      videos,
		Channels:    channels,
		CollectedAt: collectedAt,
	}, nil
}

// assembleVideo builds the canonical record for one catalog video found
// under one search combination.
func (a *Assembler) assembleVideo(v youtube.Video, keyword, region string, collectedAt time.Time) model.VideoRecord {
	cls := a.rules.Classify(v.CategoryID, v.Title, v.Description, v.Tags)

	return model.VideoRecord{
		VideoID:              v.ID,
		ChannelID:            v.ChannelID,
		CategoryID:           v.CategoryID,
		Title:                v.Title,
		Description:          v.Description,
		Tags:                 v.Tags,
		PublishedAt:          v.PublishedAt,
		ViewCount:            v.Views,
		LikeCount:            v.Likes,
		CommentCount:         v.Comments,
		EngagementRate:       classify.EngagementRate(v.Views, v.Likes, v.Comments),
		FinalSentiment:       cls.Sentiment,
		ClassificationMethod: cls.Method,
		PositiveKeywordCount: cls.PositiveHits,
		NegativeKeywordCount: cls.NegativeHits,
		SearchKeyword:        keyword,
		SearchRegion:         region,
		CollectedAt:          collectedAt,
	}
}

// collectChannels looks up details for the deduplicated channel id set.
func (a *Assembler) collectChannels(ctx context.Context, channelIDs map[string]bool) ([]model.ChannelRecord, error) {
	if len(channelIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(channelIDs))
	for id := range channelIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	details, err := a.client.ChannelDetails(ctx, ids)
	if err != nil {
		return nil, eris.Wrap(err, "collector: channel details")
	}

	records := make([]model.ChannelRecord, 0, len(details))
	for _, ch := range details {
		if ch.ID == "" {
			zap.L().Warn("skipping malformed channel record")
			continue
		}
		country := ch.Country
		if country == "" {
			country = model.CountryUnknown
		}
		records = append(records, model.ChannelRecord{
			ChannelID:       ch.ID,
			ChannelTitle:    ch.Title,
			ChannelCountry:  country,
			SubscriberCount: ch.Subscribers,
			VideoCount:      ch.Videos,
		})
	}
	return records, nil
}
