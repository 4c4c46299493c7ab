package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/desertthunder/vidup/internal/models"
	"github.com/desertthunder/vidup/internal/shared"
)

// VideoService wraps the video endpoints.
type VideoService struct {
	gw *Gateway
}

// NewVideoService creates a [VideoService] backed by gw.
func NewVideoService(gw *Gateway) *VideoService {
	return &VideoService{gw: gw}
}

// List fetches one page of the user's videos. Pages start at 1.
func (s *VideoService) List(ctx context.Context, page int) (*models.VideoPage, error) {
	if page < 1 {
		page = 1
	}

	resp, err := s.gw.Request(ctx, Request{
		Method:   http.MethodGet,
		Endpoint: "/videos",
		Query:    url.Values{"page": {strconv.Itoa(page)}},
	})
	if err != nil {
		return nil, err
	}

	var out models.VideoPage
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upload streams a video file with its title.
func (s *VideoService) Upload(ctx context.Context, title, fileName string, r io.Reader) (*models.Video, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	}

	resp, err := s.gw.Request(ctx, Request{
		Method:   http.MethodPost,
		Endpoint: "/videos",
		Multipart: &MultipartBody{
			Fields: map[string]string{"title": title},
			Files:  []MultipartFile{{Field: "video_file", FileName: fileName, Reader: r}},
		},
	})
	if err != nil {
		return nil, err
	}

	var v models.Video
	if err := resp.Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// UploadFile opens path and uploads it with [VideoService.Upload].
func (s *VideoService) UploadFile(ctx context.Context, title, path string) (*models.Video, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", shared.ErrInvalidInput, path)
	}

	s.gw.logger.Info("uploading video", "file", filepath.Base(path), "size", humanize.Bytes(uint64(info.Size())))

	return s.Upload(ctx, title, filepath.Base(path), f)
}

// InitiateYouTubeUpload asks the server to push video id to the linked channel.
func (s *VideoService) InitiateYouTubeUpload(ctx context.Context, id string) (*models.Video, error) {
	var v models.Video
	endpoint := "/videos/" + url.PathEscape(id) + "/initiate-youtube-upload"
	if err := s.gw.Do(ctx, http.MethodPost, endpoint, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
