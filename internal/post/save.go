package post

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/robopost/internal/program"
	"github.com/roach88/robopost/internal/sink"
)

// SaveRequest is the shared save lifecycle used by every dialect.
type SaveRequest struct {
	Config   Config
	Env      Env
	Buffer   *program.Buffer
	Folder   string
	Name     string
	Ext      string
	Encoding string
	Options  SaveOptions

	// Lines overrides the buffer content when non-nil, for dialects that
	// wrap the buffered lines in a header or footer.
	Lines []string
}

// Save persists the request and clears the buffer on success.
//
// When AskUser is set or the folder does not exist and Env.Resolve is
// available, the destination is resolved externally; a cancelled resolve
// leaves the buffer untouched and returns nil. Without a resolver a missing
// folder is created.
func Save(req SaveRequest) (sink.Artifact, error) {
	lines := req.Lines
	if lines == nil {
		lines = req.Buffer.Lines()
	}

	file := req.Name
	if req.Ext != "" {
		file += "." + req.Ext
	}

	var art sink.Artifact
	var err error
	if (req.Options.AskUser || !dirExists(req.Folder)) && req.Env.Resolve != nil {
		path, ok := req.Env.Resolve(req.Folder, file)
		if !ok {
			slog.Info("save cancelled", "program", req.Name)
			return sink.Artifact{}, nil
		}
		art, err = sink.PersistPath(path, lines, req.Encoding)
	} else {
		art, err = sink.Persist(req.Folder, req.Name, req.Ext, lines, req.Encoding)
	}
	if err != nil {
		return sink.Artifact{}, err
	}

	req.Buffer.Flush()
	req.Buffer.MarkSaved(art.Path)

	log := req.Buffer.Log()
	if req.Options.ShowResult {
		if err := sink.Reveal(art.Path, req.Options.Viewer); err != nil {
			slog.Warn("could not open viewer", "path", art.Path, "error", err)
		}
		if log != "" {
			slog.Warn("program generation log", "program", req.Name, "log", strings.TrimRight(log, "\n"))
		}
	}

	if req.Env.Observe != nil {
		req.Env.Observe(SaveEvent{
			Post:    req.Config.Post,
			Robot:   req.Config.Name,
			Program: req.Name,
			Path:    art.Path,
			Lines:   len(lines),
			Size:    art.Size,
			Digest:  art.Digest,
			Log:     log,
		})
	}
	return art, nil
}

func dirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(filepath.Clean(path))
	return err == nil && info.IsDir()
}
