package gather

import "context"

// Entry is one candidate file discovered by a Source, before filtering.
// Path is always slash-separated and relative to the source root, so the
// aggregated document looks the same regardless of host platform.
type Entry struct {
	Path  string
	Size  int64
	IsDir bool
	SHA   string // blob identifier for remote entries, empty for local files
}

// Source enumerates candidate files and fetches their content. A Source is
// selected once at run start; the pipeline never branches on the concrete
// type.
type Source interface {
	// Name identifies the source root in logs and error messages.
	Name() string

	// ListEntries produces the candidate file list in traversal order.
	// The order is preserved all the way into the aggregated document.
	ListEntries(ctx context.Context) ([]Entry, error)

	// FetchText reads one entry's content decoded as text. Undecodable
	// byte sequences are replaced, not failed.
	FetchText(ctx context.Context, e Entry) (string, error)
}
