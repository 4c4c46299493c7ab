package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/vidup/internal/models"
)

var _ list.Item = videoItem{}

// videoItem wraps [models.Video] to implement [list.Item].
type videoItem struct {
	video      models.Video
	publishing bool
}

func (i videoItem) FilterValue() string { return i.video.Title }
func (i videoItem) Title() string       { return i.video.Title }
func (i videoItem) Description() string {
	desc := i.video.Status.Label()
	switch {
	case i.publishing:
		desc = "Starting upload..."
	case i.video.URL() != "":
		desc = fmt.Sprintf("%s • %s", desc, i.video.URL())
	case i.video.OriginalFileName != "":
		desc = fmt.Sprintf("%s • %s", desc, i.video.OriginalFileName)
	}
	return desc
}

func videoItems(videos []models.Video, publishing map[string]bool) []list.Item {
	items := make([]list.Item, len(videos))
	for i, v := range videos {
		items[i] = videoItem{video: v, publishing: publishing[v.ID]}
	}
	return items
}
