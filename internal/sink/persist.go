package sink

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Artifact describes a file written by Persist.
type Artifact struct {
	Path   string // absolute path
	Size   int    // bytes written
	Digest string // hex SHA-256 of the written bytes
}

// Persist writes lines to <folder>/<name>.<ext>.
// The name must be a plain file name; it cannot climb out of folder.
func Persist(folder, name, ext string, lines []string, encoding string) (Artifact, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return Artifact{}, &PersistenceError{Op: "validate", Path: name, Err: errors.New("program name must be a plain file name")}
	}
	file := name
	if ext != "" {
		file += "." + ext
	}
	return PersistPath(filepath.Join(folder, file), lines, encoding)
}

// PersistPath writes lines to path, each followed by a newline, creating
// parent directories as needed.
func PersistPath(path string, lines []string, encoding string) (Artifact, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Artifact{}, &PersistenceError{Op: "resolve", Path: path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return Artifact{}, &PersistenceError{Op: "mkdir", Path: abs, Err: err}
	}

	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	data, err := Encode(sb.String(), encoding)
	if err != nil {
		return Artifact{}, &PersistenceError{Op: "encode", Path: abs, Err: err}
	}

	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return Artifact{}, &PersistenceError{Op: "write", Path: abs, Err: err}
	}

	sum := sha256.Sum256(data)
	art := Artifact{
		Path:   abs,
		Size:   len(data),
		Digest: hex.EncodeToString(sum[:]),
	}
	slog.Info("saved program", "path", art.Path, "bytes", art.Size)
	return art, nil
}
