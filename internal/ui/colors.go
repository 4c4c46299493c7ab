package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/vidup/internal/models"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	badges map[models.YTUploadStatus]lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		badges: map[models.YTUploadStatus]lipgloss.Style{
			models.NotUploaded: NewBadge(h),
			models.Uploading:   NewBadge(w),
			models.Uploaded:    NewBadge(s),
			models.Failed:      NewBadge(e),
		},
	}
}

// Badge renders the label of status in its badge color.
func (p *Palette) Badge(status models.YTUploadStatus) string {
	style, ok := p.badges[status]
	if !ok {
		style = p.help
	}
	return style.Render(status.Label())
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

func NewBadge(bg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color(bg)).Padding(0, 1)
}
