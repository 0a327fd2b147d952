// Package assist coordinates alignment guides, magnetic snapping, spacing
// suggestions and learning into one per-frame evaluation.
//
// # Overview
//
// A host calls [Engine.Evaluate] on every drag frame with a read-only
// geometry snapshot and the current drag point. The engine rebuilds guides
// and magnet zones from scratch, asks each manager for its opinion, and
// resolves them into a single [Result]:
//
//  1. If the strongest magnet zone pulls with a strength above 0.5, its
//     snap target wins outright.
//  2. Otherwise each axis is resolved on its own: an active alignment guide
//     stronger than 0.7 replaces the raw coordinate on that axis.
//
// Spacing suggestions and, for selections of three or more components, even
// distribution guides are reported alongside but never move the point.
//
// # Learning
//
// The host reports how the user reacted to what was shown through
// [Engine.RecordActivation]. When [Config.Adaptive] is set the learned
// magnetism sensitivity scales zone strengths (relative to the neutral 0.5)
// and the learned spacing tolerance scales the spacing manager's tolerance.
// A fresh engine therefore behaves exactly as configured.
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Hosts serving several goroutines
// must serialize every call, including Export and Import.
package assist
