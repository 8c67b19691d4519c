package post

import (
	"context"

	"github.com/roach88/robopost/internal/sink"
)

// Env carries the external collaborators a post relies on.
// Every field is optional.
type Env struct {
	// Uploader transfers saved files to the robot controller.
	Uploader sink.Uploader

	// Resolve picks the destination when SaveOptions.AskUser is set or the
	// folder does not exist. It receives the folder hint and file name and
	// returns the full path, or false to cancel the save.
	Resolve func(folder, file string) (string, bool)

	// Observe is called after every successful save.
	Observe func(SaveEvent)
}

// SaveEvent describes a program that has just been written.
type SaveEvent struct {
	Post    string
	Robot   string
	Program string
	Path    string
	Lines   int
	Size    int
	Digest  string
	Log     string
}

// SendFiles hands paths to env's uploader. The uploader's error is returned
// unchanged.
func SendFiles(ctx context.Context, env Env, paths []string, ip, remotePath, user, pass string) error {
	if env.Uploader == nil {
		return &sink.TransferError{Host: ip, Err: sink.ErrNoUploader}
	}
	return env.Uploader.Upload(ctx, paths, ip, remotePath, user, pass)
}
