// Package profile persists learning data between sessions.
//
// The engine itself never touches disk or network: hosts call
// [assist.Engine.ExportLearningData] and hand the bytes to a [Store], and
// read them back with [LoadInto]. A profile is addressed by a short name
// (for example a user id or "default") that must pass
// [errors.ValidateProfileName].
//
// # Backends
//
//   - file: one JSON document per profile under a directory (default)
//   - sqlite: a single table in a local SQLite database
//   - redis: one key per profile, optionally prefixed
//   - mongo: one document per profile in a collection
//   - none: discards writes and never finds anything
//
// [Open] selects a backend from [Config] and wraps it so that every call
// validates the profile name and reports to the store hooks in
// [observability].
package profile
