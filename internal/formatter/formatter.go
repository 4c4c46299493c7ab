// Package formatter renders videos and account state as tables, CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/desertthunder/vidup/internal/models"
	"github.com/desertthunder/vidup/internal/shared"
	"github.com/desertthunder/vidup/internal/tasks"
)

// Format is an output format for video listings.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ParseFormat validates a format name. The empty string selects [FormatTable].
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatCSV, FormatMarkdown, FormatText:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (table, json, csv, markdown, text)", shared.ErrInvalidArgument, s)
	}
}

// Alignment of a table column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// RenderTable renders rows under headers with rounded borders. Short rows are padded.
func RenderTable(headers []string, rows [][]string, aligns []Alignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// RelativeTime renders an API timestamp relative to now, e.g. "3 hours ago".
// Unparseable values are returned unchanged.
func RelativeTime(ts string, now time.Time) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

var videoHeaders = []string{"#", "ID", "Title", "Status", "YouTube", "Uploaded"}

func videoRows(videos []models.Video, offset int, now time.Time) [][]string {
	rows := make([][]string, 0, len(videos))
	for i, v := range videos {
		yt := v.URL()
		if yt == "" {
			yt = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(offset + i + 1),
			v.ID,
			v.Title,
			v.Status.Label(),
			yt,
			RelativeTime(v.UploadedAtApp, now),
		})
	}
	return rows
}

func pageOffset(meta models.PageMeta) int {
	if meta.From != nil && *meta.From > 0 {
		return *meta.From - 1
	}
	if meta.CurrentPage > 1 && meta.PerPage > 0 {
		return (meta.CurrentPage - 1) * meta.PerPage
	}
	return 0
}

// PageFooter summarizes the position of a page, e.g. "Page 2 of 3 · 25 videos".
func PageFooter(meta models.PageMeta) string {
	last := max(meta.LastPage, 1)
	current := max(meta.CurrentPage, 1)
	return fmt.Sprintf("Page %d of %d · %s", current, last, humanize.Comma(int64(meta.Total))+pluralize(meta.Total, " video", " videos"))
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// VideosTable renders a page of videos as a table followed by the page footer.
func VideosTable(page *models.VideoPage, now time.Time) string {
	if len(page.Data) == 0 {
		return "No videos uploaded yet.\n"
	}

	aligns := []Alignment{AlignRight}
	out := RenderTable(videoHeaders, videoRows(page.Data, pageOffset(page.Meta), now), aligns)
	return out + "\n" + PageFooter(page.Meta) + "\n"
}

// VideosCSV converts videos to CSV with columns: ID, Title, Status, Original File, YouTube URL, Uploaded At
func VideosCSV(videos []models.Video) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Title", "Status", "Original File", "YouTube URL", "Uploaded At"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, v := range videos {
		record := []string{v.ID, v.Title, string(v.Status), v.OriginalFileName, v.URL(), v.UploadedAtApp}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// VideosMarkdown renders a page as a Markdown document with thumbnails resolved under thumbBase.
func VideosMarkdown(page *models.VideoPage, thumbBase string) []byte {
	var buf bytes.Buffer

	buf.WriteString("# My Videos\n\n")
	buf.WriteString(fmt.Sprintf("**%s**\n\n", PageFooter(page.Meta)))

	for i, v := range page.Data {
		buf.WriteString(fmt.Sprintf("## %d. %s\n\n", pageOffset(page.Meta)+i+1, v.Title))
		buf.WriteString(fmt.Sprintf("![%s](%s)\n\n", v.Title, v.ThumbnailURL(thumbBase)))
		buf.WriteString(fmt.Sprintf("- **ID**: `%s`\n", v.ID))
		buf.WriteString(fmt.Sprintf("- **File**: %s\n", v.OriginalFileName))
		buf.WriteString(fmt.Sprintf("- **Status**: %s\n", v.Status.Label()))
		if u := v.URL(); u != "" {
			buf.WriteString(fmt.Sprintf("- **YouTube**: [%s](%s)\n", u, u))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// VideosText renders one line per video.
func VideosText(videos []models.Video) []byte {
	var buf bytes.Buffer
	for _, v := range videos {
		line := fmt.Sprintf("%s\t%s\t%s", v.ID, v.Status, v.Title)
		if u := v.URL(); u != "" {
			line += "\t" + u
		}
		buf.WriteString(line + "\n")
	}
	return buf.Bytes()
}

// WriteVideos writes page to w in format.
func WriteVideos(w io.Writer, page *models.VideoPage, format Format, thumbBase string, now time.Time) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatJSON:
		data, err = shared.MarshalJSON(page, true)
		data = append(data, '\n')
	case FormatCSV:
		data, err = VideosCSV(page.Data)
	case FormatMarkdown:
		data = VideosMarkdown(page, thumbBase)
	case FormatText:
		data = VideosText(page.Data)
	default:
		data = []byte(VideosTable(page, now))
	}
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// VideoDetail renders a single video as aligned key/value lines.
func VideoDetail(v models.Video, thumbBase string) string {
	rows := [][]string{
		{"ID", v.ID},
		{"Title", v.Title},
		{"File", v.OriginalFileName},
		{"Status", v.Status.Label()},
		{"Thumbnail", v.ThumbnailURL(thumbBase)},
	}
	if u := v.URL(); u != "" {
		rows = append(rows, []string{"YouTube", u})
	}

	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%-10s %s\n", r[0]+":", r[1])
	}
	return b.String()
}

// UserSummary renders the account and channel link state.
func UserSummary(u *models.User) string {
	if !u.Valid() {
		return "Not logged in.\n"
	}

	channel := "not connected"
	if u.IsYouTubeConnected {
		channel = "connected"
		if name := u.ChannelName(); name != "" {
			channel = fmt.Sprintf("connected (%s)", name)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Logged in as %s (@%s)\n", u.Name, u.Username)
	fmt.Fprintf(&b, "Email:   %s\n", u.Email)
	fmt.Fprintf(&b, "YouTube: %s\n", channel)
	return b.String()
}

// BulkPublishTable renders per-video outcomes of a bulk publish with a summary line.
func BulkPublishTable(res *tasks.BulkPublishResult) string {
	rows := make([][]string, 0, len(res.Results))
	for _, r := range res.Results {
		outcome := "✓ " + models.Uploading.Label()
		if r.Error != nil {
			outcome = "✗ " + r.Error.Error()
		} else if r.Video != nil {
			outcome = "✓ " + r.Video.Status.Label()
		}
		rows = append(rows, []string{r.VideoID, r.Title, outcome})
	}

	summary := fmt.Sprintf("%d published, %d failed, %d skipped of %d", res.Published, res.Failed, res.Skipped, res.Total)
	if len(rows) == 0 {
		return summary + "\n"
	}
	return RenderTable([]string{"ID", "Title", "Result"}, rows, nil) + "\n" + summary + "\n"
}
