package models

import (
	"fmt"
	"strings"
)

// YTUploadStatus is the YouTube publishing state of a [Video].
type YTUploadStatus string

const (
	NotUploaded YTUploadStatus = "NOT_UPLOADED"
	Uploading   YTUploadStatus = "UPLOADING"
	Uploaded    YTUploadStatus = "UPLOADED"
	Failed      YTUploadStatus = "FAILED"
)

var transitions = map[YTUploadStatus][]YTUploadStatus{
	NotUploaded: {Uploading},
	Uploading:   {Uploaded, Failed},
	Failed:      {Uploading},
}

// CanTransition reports whether moving from one status to another is a legal step.
func CanTransition(from, to YTUploadStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the known statuses.
func (s YTUploadStatus) Valid() bool {
	switch s {
	case NotUploaded, Uploading, Uploaded, Failed:
		return true
	default:
		return false
	}
}

// Label returns a human readable label for display.
func (s YTUploadStatus) Label() string {
	switch s {
	case NotUploaded:
		return "Not uploaded"
	case Uploading:
		return "Uploading"
	case Uploaded:
		return "On YouTube"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

func (s YTUploadStatus) String() string { return string(s) }

// Video is a stored upload as returned by the API.
type Video struct {
	ID               string         `json:"id"`
	UserID           int64          `json:"user_id"`
	Title            string         `json:"title"`
	OriginalFileName string         `json:"original_file_name"`
	FilePath         string         `json:"file_path"`
	ThumbnailPath    *string        `json:"thumbnail_path,omitempty"`
	Status           YTUploadStatus `json:"yt_upload_status"`
	YouTubeVideoID   *string        `json:"youtube_video_id,omitempty"`
	YouTubeURL       *string        `json:"youtube_url,omitempty"`
	UploadedAtApp    string         `json:"uploaded_at_app"`
	CreatedAt        string         `json:"created_at"`
	UpdatedAt        string         `json:"updated_at"`
}

// Publishable reports whether the video may be pushed to YouTube (first attempt or retry).
func (v Video) Publishable() bool {
	return CanTransition(v.Status, Uploading)
}

// URL returns the YouTube URL once the video is live, or "".
func (v Video) URL() string {
	if v.Status != Uploaded || v.YouTubeURL == nil {
		return ""
	}
	return *v.YouTubeURL
}

// ThumbnailURL resolves the public thumbnail URL under base.
//
// Thumbnails are stored under a "public/" prefix server-side and exposed without it.
// Videos without a thumbnail get a deterministic placeholder.
func (v Video) ThumbnailURL(base string) string {
	if v.ThumbnailPath != nil {
		if _, rel, ok := strings.Cut(*v.ThumbnailPath, "public/"); ok && rel != "" {
			return strings.TrimRight(base, "/") + "/" + rel
		}
	}
	return fmt.Sprintf("https://picsum.photos/seed/%s/320/180", v.ID)
}

// PageLinks holds the navigation links of a [VideoPage].
type PageLinks struct {
	First *string `json:"first"`
	Last  *string `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// PageMeta holds the pagination metadata of a [VideoPage].
type PageMeta struct {
	CurrentPage int    `json:"current_page"`
	From        *int   `json:"from"`
	LastPage    int    `json:"last_page"`
	Path        string `json:"path"`
	PerPage     int    `json:"per_page"`
	To          *int   `json:"to"`
	Total       int    `json:"total"`
}

// VideoPage is one page of the user's video collection.
type VideoPage struct {
	Data  []Video   `json:"data"`
	Links PageLinks `json:"links"`
	Meta  PageMeta  `json:"meta"`
}
