package errors

// Kind classifies an EngineError into one of the four kinds this module
// distinguishes. Callers branch on Kind rather than on message text.
type Kind string

const (
	// InvalidArgument marks a caller mistake: malformed query, dimension
	// mismatch, duplicate document id, out-of-range weight.
	InvalidArgument Kind = "INVALID_ARGUMENT"

	// DeadlineExceeded marks a query that ran out of time. A Search call
	// returning this kind may still carry partial fused results.
	DeadlineExceeded Kind = "DEADLINE_EXCEEDED"

	// Exhausted marks resource exhaustion: cache overflow that could not
	// be resolved by eviction, id space exhaustion.
	Exhausted Kind = "EXHAUSTED"

	// NotFound marks a lookup against an id, edge, or cache entry that
	// does not exist.
	NotFound Kind = "NOT_FOUND"
)
