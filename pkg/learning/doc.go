// Package learning adapts layout assistance to how a user reacts to it.
//
// Every time a guide, spacing suggestion or magnetic snap is shown, the host
// records an [Activation] describing what was shown and what the user did
// with it. The [System] keeps these in a bounded ring buffer (10,000 entries
// by default, oldest evicted first) and, once enough have accumulated,
// recomputes its [Preferences] after every new record:
//
//   - a score in [0,1] per guide type, blended toward the observed
//     acceptance with a learning rate and then decayed so old habits fade
//   - the ten most frequently accepted spacings, bucketed to 4px
//   - a tolerance per guide type that widens when suggestions are rejected
//     and narrows when they are accepted
//   - per component-count bucket sensitivities and preferred guide types
//
// Derived [Patterns] (common spacings, recurring guide sequences, hourly
// usage, productivity windows and layout-size mix) are refreshed alongside.
//
// # Persistence
//
// [System.Export] and [System.Import] move the whole learning state as
// indented JSON. Import is all-or-nothing: the document is decoded and
// validated in full before any in-memory state is replaced.
//
// A System is not safe for concurrent use. Hosts that share one across
// goroutines must serialize access, and must not interleave Import with
// Record.
package learning
