package models

import "testing"

func strPtr(s string) *string { return &s }

func TestStatus(t *testing.T) {
	t.Run("CanTransition", func(t *testing.T) {
		tc := []struct {
			from, to YTUploadStatus
			want     bool
		}{
			{NotUploaded, Uploading, true},
			{Uploading, Uploaded, true},
			{Uploading, Failed, true},
			{Failed, Uploading, true},
			{Uploaded, Uploading, false},
			{NotUploaded, Uploaded, false},
			{Failed, Uploaded, false},
			{Uploaded, NotUploaded, false},
		}

		for _, tt := range tc {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		}
	})

	t.Run("Valid", func(t *testing.T) {
		if !Uploading.Valid() {
			t.Error("expected UPLOADING to be valid")
		}
		if YTUploadStatus("QUEUED").Valid() {
			t.Error("expected QUEUED to be invalid")
		}
	})
}

func TestVideo(t *testing.T) {
	t.Run("Publishable", func(t *testing.T) {
		for status, want := range map[YTUploadStatus]bool{
			NotUploaded: true,
			Failed:      true,
			Uploading:   false,
			Uploaded:    false,
		} {
			v := Video{Status: status}
			if v.Publishable() != want {
				t.Errorf("expected Publishable() = %v for %s", want, status)
			}
		}
	})

	t.Run("ThumbnailURL Strips Public Prefix", func(t *testing.T) {
		v := Video{ID: "abc", ThumbnailPath: strPtr("public/thumbnails/abc.jpg")}
		got := v.ThumbnailURL("http://yt.lc/storage/")
		if got != "http://yt.lc/storage/thumbnails/abc.jpg" {
			t.Errorf("unexpected thumbnail url %s", got)
		}
	})

	t.Run("ThumbnailURL Placeholder", func(t *testing.T) {
		v := Video{ID: "abc"}
		if got := v.ThumbnailURL("http://yt.lc/storage"); got != "https://picsum.photos/seed/abc/320/180" {
			t.Errorf("unexpected placeholder %s", got)
		}
	})

	t.Run("URL Only When Uploaded", func(t *testing.T) {
		v := Video{Status: Uploading, YouTubeURL: strPtr("https://youtu.be/x")}
		if v.URL() != "" {
			t.Error("expected no URL while uploading")
		}
		v.Status = Uploaded
		if v.URL() != "https://youtu.be/x" {
			t.Errorf("expected URL, got %q", v.URL())
		}
	})
}

func TestLoginCredentials(t *testing.T) {
	t.Run("Email Identifier", func(t *testing.T) {
		p := LoginCredentials{Identifier: "a@b.com", Password: "x"}.Payload()
		if p["email"] != "a@b.com" || p["password"] != "x" {
			t.Errorf("unexpected payload %v", p)
		}
		if _, ok := p["username"]; ok {
			t.Error("username should not be sent with an email identifier")
		}
	})

	t.Run("Username Identifier", func(t *testing.T) {
		p := LoginCredentials{Identifier: "alice", Password: "x"}.Payload()
		if p["username"] != "alice" {
			t.Errorf("unexpected payload %v", p)
		}
		if _, ok := p["email"]; ok {
			t.Error("email should not be sent with a username identifier")
		}
	})
}

func TestUser(t *testing.T) {
	var nilUser *User
	if nilUser.Valid() {
		t.Error("nil user should not be valid")
	}
	if (&User{}).Valid() {
		t.Error("zero id user should not be valid")
	}
	u := &User{ID: 1, YouTubeChannelName: strPtr("Chan")}
	if !u.Valid() || u.ChannelName() != "Chan" {
		t.Errorf("unexpected user projection %+v", u)
	}
	if nilUser.ChannelName() != "" {
		t.Error("expected empty channel name for nil user")
	}
}
