// Package ui implements an interactive terminal dashboard using bubbletea's Elm architecture.
//
// The dashboard lists the signed-in user's videos one server page at a time:
//  1. [LoadingView] : Spinner while the first page loads
//  2. [DashboardView] : Paged video list with status badges and a publish action
//  3. [ErrorView] : Load failure with retry
//  4. [ExpiredView] : Shown once the session manager reports an invalidated session
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Page loads and publish requests run as commands against [tasks.ListController] and [tasks.Tracker];
// successful publishes are merged into the held page without a refetch, and the page is polled while uploads are in flight.
//
// Keyboard navigation uses vim-style bindings (j/k, h/l, p, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
