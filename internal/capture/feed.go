package capture

import (
	"encoding/json"
	"fmt"

	"github.com/desertthunder/songcap/internal/models"
)

// FeedPage is one page of the paginated library feed.
type FeedPage struct {
	Clips []FeedClip `json:"clips"`
	// Skipped holds one error per clip that could not be decoded.
	Skipped []error `json:"-"`
}

// FeedClip is a song entry in a feed page. Only the fields songcap reads are decoded.
type FeedClip struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	MajorModelVersion string        `json:"major_model_version"`
	Metadata          *clipMetadata `json:"metadata"`
}

type clipMetadata struct {
	ModelBadges *modelBadges `json:"model_badges"`
}

type modelBadges struct {
	SongRow *badge `json:"songrow"`
}

type badge struct {
	DisplayName string `json:"display_name"`
}

// DecodeFeed decodes a feed response body.
//
// Clips are decoded one at a time: a clip with an unexpected shape is recorded in Skipped and the rest of the page
// is kept. Only a body that is not a feed page at all is an error.
func DecodeFeed(body []byte) (*FeedPage, error) {
	var raw struct {
		Clips []json.RawMessage `json:"clips"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode feed page: %w", err)
	}

	page := &FeedPage{Clips: make([]FeedClip, 0, len(raw.Clips))}
	for i, msg := range raw.Clips {
		var clip FeedClip
		if err := json.Unmarshal(msg, &clip); err != nil {
			page.Skipped = append(page.Skipped, fmt.Errorf("clip %d: %w", i, err))
			continue
		}
		page.Clips = append(page.Clips, clip)
	}
	return page, nil
}

// Version returns the song row badge name, else major_model_version, else "".
func (c FeedClip) Version() string {
	if m := c.Metadata; m != nil && m.ModelBadges != nil && m.ModelBadges.SongRow != nil {
		if name := m.ModelBadges.SongRow.DisplayName; name != "" {
			return name
		}
	}
	return c.MajorModelVersion
}

// Song converts the clip into a record linked under baseURL.
func (c FeedClip) Song(baseURL string) models.Song {
	return models.NewSong(c.ID, c.Title, models.SongURL(baseURL, c.ID), c.Version())
}
