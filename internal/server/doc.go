// Package server provides the local HTTP infrastructure for the YouTube channel connect flow.
//
// # Connect Flow
//
// Linking a channel happens on an externally hosted page. When it finishes, the browser is sent
// back to the settings page with either youtube_connected=true or youtube_error=<message> in the query.
// [ConnectHandler] serves GET /settings on a short-lived [CallbackServer], captures that query
// exactly once and delivers it through [ConnectHandler.Result]. Callers then force-refresh the user
// to learn the linked channel name.
//
// # Router Infrastructure
//
// [BasicRouter] implements [Router] on top of [http.ServeMux] method patterns, so a request with the
// wrong method is answered with 405 by the mux itself. [Middleware] is applied with the first added
// as the outermost wrapper; [RequestLogger] and [Recoverer] are provided.
package server
