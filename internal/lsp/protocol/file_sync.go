package protocol

// FileEvent represents a file event
type FileEvent struct {
	URI  string `json:"uri"`
	Type int    `json:"type"`
}

// FileChangeType represents the type of file change
type FileChangeType int

const (
	// FileCreated represents a file creation event
	FileCreated FileChangeType = 1
	// FileChanged represents a file change event
	FileChanged FileChangeType = 2
	// FileDeleted represents a file deletion event
	FileDeleted FileChangeType = 3
)

// DidChangeWatchedFilesParams represents the parameters for a didChangeWatchedFiles notification
type DidChangeWatchedFilesParams struct {
	Changes []FileEvent `json:"changes"`
}
