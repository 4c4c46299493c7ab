package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidup/internal/models"
	"github.com/desertthunder/vidup/internal/services"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPageLoaded MsgKind = iota
	MsgPublished
	MsgSessionExpired
	MsgPollTick
)

type pageLoaded struct {
	changed bool
	err     error
}

type published struct {
	id    string
	video *models.Video
	err   error
}

// pageLoadedMsg is the constructor for [MsgPageLoaded]
func pageLoadedMsg(changed bool, err error) Msg {
	return Msg{kind: MsgPageLoaded, data: pageLoaded{changed, err}}
}

// publishedMsg is the constructor for [MsgPublished]
func publishedMsg(id string, video *models.Video, err error) Msg {
	return Msg{kind: MsgPublished, data: published{id, video, err}}
}

// sessionExpiredMsg is the constructor for [MsgSessionExpired]
func sessionExpiredMsg(ev services.SessionInvalidated) Msg {
	return Msg{kind: MsgSessionExpired, data: ev}
}

// pollTickMsg is the constructor for [MsgPollTick]
func pollTickMsg() Msg {
	return Msg{kind: MsgPollTick}
}
