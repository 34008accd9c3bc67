// Package media is the pre-flight gate for user-supplied recordings.
//
// Validate classifies a path as processable or rejects it with a typed
// AppError before any network activity. Checks run in a fixed order and
// stop at the first failure: existence, regular file, non-zero size, size
// ceiling, content sniffing, allow-list. The content type comes from the
// leading bytes of the file, never from its name.
package media
