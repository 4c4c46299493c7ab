// Package session owns the authenticated user and bearer token of the running client.
//
// # State
//
// A [Manager] holds three values under one mutex: the current user, the token and a loading flag.
// The user is present only while a valid token produced it. Channel link state is never stored on
// its own; [Manager.IsYouTubeConnected] and [Manager.YouTubeChannelName] project the current user.
//
// # Fetching
//
// [Manager.FetchUser] is memoized: with a token and a loaded user it returns without a network call
// unless forced. Every fetch, login, logout and invalidation bumps a generation counter, and a fetch
// response whose generation is no longer current is discarded, so a slow response never overwrites
// newer state. Loading is cleared on every settled path.
//
// # Invalidation
//
// [Manager.HandleSessionInvalidated] subscribes to the gateway's 401 event. It clears the in-memory
// session and then calls the listeners registered with [Manager.OnInvalidated], which is how the CLI
// prints a re-login hint and the dashboard switches to its session-expired view.
package session
