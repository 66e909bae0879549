package roadmap

import (
	"encoding/json"
	"fmt"
)

// ResourceType is the kind of learning material a Resource points at
type ResourceType string

const (
	ResourceCourse        ResourceType = "course"
	ResourceArticle       ResourceType = "article"
	ResourceVideo         ResourceType = "video"
	ResourceBook          ResourceType = "book"
	ResourceProject       ResourceType = "project"
	ResourceTutorial      ResourceType = "tutorial"
	ResourceDocumentation ResourceType = "documentation"
	ResourceCertification ResourceType = "certification"
	ResourceVideoTutorial ResourceType = "video-tutorial"
)

var knownResourceTypes = map[ResourceType]bool{
	ResourceCourse:        true,
	ResourceArticle:       true,
	ResourceVideo:         true,
	ResourceBook:          true,
	ResourceProject:       true,
	ResourceTutorial:      true,
	ResourceDocumentation: true,
	ResourceCertification: true,
	ResourceVideoTutorial: true,
}

// IsValid reports whether t is one of the known resource types
func (t ResourceType) IsValid() bool {
	return knownResourceTypes[t]
}

// ResourceKind discriminates the payload carried by a Resource
type ResourceKind int

const (
	KindLink ResourceKind = iota
	KindVideo
)

// VideoDetails is the payload of a video-tutorial resource
type VideoDetails struct {
	VideoID     string
	Thumbnail   string
	ThumbnailHQ string
	Views       string
}

// Resource is a learning reference attached to a milestone.
// Video is non-nil exactly when Type is ResourceVideoTutorial.
type Resource struct {
	Title      string
	Type       ResourceType
	URL        string
	Provider   string
	Duration   string
	IsFree     bool
	Difficulty string
	Rating     float64
	Video      *VideoDetails
}

// NewLinkResource builds a non-video resource
func NewLinkResource(title string, typ ResourceType, url, provider, duration string, isFree bool) Resource {
	return Resource{
		Title:    title,
		Type:     typ,
		URL:      url,
		Provider: provider,
		Duration: duration,
		IsFree:   isFree,
	}
}

// NewVideoResource builds a video-tutorial resource for the given video id
func NewVideoResource(title, channel, videoID, duration, views string) Resource {
	return Resource{
		Title:    title,
		Type:     ResourceVideoTutorial,
		URL:      "https://www.youtube.com/watch?v=" + videoID,
		Provider: channel,
		Duration: duration,
		IsFree:   true,
		Video: &VideoDetails{
			VideoID:     videoID,
			Thumbnail:   "https://img.youtube.com/vi/" + videoID + "/mqdefault.jpg",
			ThumbnailHQ: "https://img.youtube.com/vi/" + videoID + "/hqdefault.jpg",
			Views:       views,
		},
	}
}

// Kind returns the variant tag of the resource
func (r Resource) Kind() ResourceKind {
	if r.Type == ResourceVideoTutorial {
		return KindVideo
	}
	return KindLink
}

// Validate checks that the payload matches the variant tag
func (r Resource) Validate() error {
	if !r.Type.IsValid() {
		return fmt.Errorf("unknown resource type %q", r.Type)
	}
	switch r.Kind() {
	case KindVideo:
		if r.Video == nil || r.Video.VideoID == "" {
			return fmt.Errorf("video-tutorial resource %q has no video id", r.Title)
		}
	case KindLink:
		if r.Video != nil {
			return fmt.Errorf("%s resource %q carries video details", r.Type, r.Title)
		}
	}
	return nil
}

// ============================================================================
// Wire Format
// ============================================================================

// resourceJSON is the flat wire shape; video fields appear only for video tutorials
type resourceJSON struct {
	Title       string       `json:"title"`
	Type        ResourceType `json:"type"`
	URL         string       `json:"url,omitempty"`
	Provider    string       `json:"provider,omitempty"`
	Duration    string       `json:"duration,omitempty"`
	IsFree      bool         `json:"is_free"`
	Difficulty  string       `json:"difficulty,omitempty"`
	Rating      float64      `json:"rating,omitempty"`
	VideoID     string       `json:"video_id,omitempty"`
	Thumbnail   string       `json:"thumbnail,omitempty"`
	ThumbnailHQ string       `json:"thumbnail_hq,omitempty"`
	Views       string       `json:"views,omitempty"`
}

func (r Resource) MarshalJSON() ([]byte, error) {
	out := resourceJSON{
		Title:      r.Title,
		Type:       r.Type,
		URL:        r.URL,
		Provider:   r.Provider,
		Duration:   r.Duration,
		IsFree:     r.IsFree,
		Difficulty: r.Difficulty,
		Rating:     r.Rating,
	}
	if r.Kind() == KindVideo && r.Video != nil {
		out.VideoID = r.Video.VideoID
		out.Thumbnail = r.Video.Thumbnail
		out.ThumbnailHQ = r.Video.ThumbnailHQ
		out.Views = r.Video.Views
	}
	return json.Marshal(out)
}

func (r *Resource) UnmarshalJSON(data []byte) error {
	var in resourceJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*r = Resource{
		Title:      in.Title,
		Type:       in.Type,
		URL:        in.URL,
		Provider:   in.Provider,
		Duration:   in.Duration,
		IsFree:     in.IsFree,
		Difficulty: in.Difficulty,
		Rating:     in.Rating,
	}
	if in.Type == ResourceVideoTutorial {
		r.Video = &VideoDetails{
			VideoID:     in.VideoID,
			Thumbnail:   in.Thumbnail,
			ThumbnailHQ: in.ThumbnailHQ,
			Views:       in.Views,
		}
	}
	return nil
}
