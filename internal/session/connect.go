package session

import (
	"context"
	"fmt"
	"net/url"
)

// ConnectOutcome classifies the channel link state after returning from the connect flow.
type ConnectOutcome int

const (
	ConnectUnknown ConnectOutcome = iota
	ConnectSucceeded
	ConnectFailed
	ConnectLinked
	ConnectNotLinked
)

func (o ConnectOutcome) String() string {
	switch o {
	case ConnectSucceeded:
		return "succeeded"
	case ConnectFailed:
		return "failed"
	case ConnectLinked:
		return "linked"
	case ConnectNotLinked:
		return "not_linked"
	default:
		return "unknown"
	}
}

// ConnectStatus is the message shown on the settings view.
type ConnectStatus struct {
	Outcome     ConnectOutcome
	ChannelName string
	Message     string
}

// Success reports whether the status should be presented as a success.
func (s ConnectStatus) Success() bool {
	return s.Outcome == ConnectSucceeded || s.Outcome == ConnectLinked
}

// ResolveConnect force-refreshes the user and classifies query from the connect return.
//
// youtube_connected=true wins over youtube_error; without either the current link state is reported.
func (m *Manager) ResolveConnect(ctx context.Context, query url.Values) (ConnectStatus, error) {
	if err := m.FetchUser(ctx, true); err != nil {
		return ConnectStatus{
			Outcome: ConnectUnknown,
			Message: "Could not retrieve latest YouTube connection status.",
		}, err
	}

	channel := m.YouTubeChannelName()

	switch {
	case query.Get("youtube_connected") == "true":
		msg := "Successfully connected to YouTube!"
		if channel != "" {
			msg += " Channel: " + channel
		}
		return ConnectStatus{Outcome: ConnectSucceeded, ChannelName: channel, Message: msg}, nil

	case query.Get("youtube_error") != "":
		return ConnectStatus{
			Outcome: ConnectFailed,
			Message: fmt.Sprintf("Failed to connect YouTube: %s", query.Get("youtube_error")),
		}, nil

	case m.IsYouTubeConnected():
		name := channel
		if name == "" {
			name = "N/A"
		}
		return ConnectStatus{Outcome: ConnectLinked, ChannelName: channel, Message: "YouTube is connected. Channel: " + name}, nil

	default:
		return ConnectStatus{Outcome: ConnectNotLinked, Message: "Manage your YouTube connection settings."}, nil
	}
}
