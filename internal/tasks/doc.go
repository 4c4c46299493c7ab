// Package tasks orchestrates video publishing operations with real-time progress reporting.
//
// # Upload Tracker
//
// [Tracker] drives the YouTube status machine of a single video:
//
//	NOT_UPLOADED ──initiate──▶ UPLOADING ──server──▶ UPLOADED
//	                               │
//	                               └──server──▶ FAILED ──initiate──▶ UPLOADING
//
// Only NOT_UPLOADED and FAILED videos may be initiated. A successful initiate is applied
// optimistically as UPLOADING; the terminal state only arrives through a later list refresh.
// Failures surface as [UploadError], with the "no linked channel" case rewritten into a
// settings hint that unwraps to [shared.ErrChannelNotConnected].
//
// # List Controller
//
// [ListController] owns the displayed page. A load replaces the page with the server's copy;
// page changes outside [1, last_page] are ignored. Tracker results are merged with
// [ListController.Apply] without a refetch and survive only a fetch that was already in flight
// (see [Reconcile]).
//
// # Bulk Operations
//
//   - [Tracker.BulkPublish] : rate limited worker pool initiating every publishable video
//   - [Watch] : polls the current page until nothing is UPLOADING
//
// # Progress Reporting
//
// All long-running operations use non-blocking channels for progress updates.
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
package tasks
