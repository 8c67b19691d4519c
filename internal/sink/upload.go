package sink

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Uploader is the transfer capability used to send saved programs to a
// robot controller.
type Uploader interface {
	Upload(ctx context.Context, paths []string, host, remotePath, user, pass string) error
}

// UploaderFunc adapts a function to the Uploader interface.
type UploaderFunc func(ctx context.Context, paths []string, host, remotePath, user, pass string) error

// Upload calls f.
func (f UploaderFunc) Upload(ctx context.Context, paths []string, host, remotePath, user, pass string) error {
	return f(ctx, paths, host, remotePath, user, pass)
}

// CommandUploader delegates the transfer to an external program, invoked as
//
//	<Command> <Args...> <host> <remotePath> <paths...>
//
// Credentials are passed in ROBOPOST_USER and ROBOPOST_PASS so they never
// appear in the process list.
type CommandUploader struct {
	Command string
	Args    []string
}

// Upload runs the command and waits for it to finish.
func (u CommandUploader) Upload(ctx context.Context, paths []string, host, remotePath, user, pass string) error {
	if u.Command == "" {
		return &TransferError{Host: host, Err: ErrNoUploader}
	}

	args := make([]string, 0, len(u.Args)+2+len(paths))
	args = append(args, u.Args...)
	args = append(args, host, remotePath)
	args = append(args, paths...)

	cmd := exec.CommandContext(ctx, u.Command, args...)
	cmd.Env = append(os.Environ(),
		"ROBOPOST_USER="+user,
		"ROBOPOST_PASS="+pass,
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := bytes.TrimSpace(out)
		if len(msg) > 0 {
			return &TransferError{Host: host, Err: fmt.Errorf("%w: %s", err, msg)}
		}
		return &TransferError{Host: host, Err: err}
	}
	return nil
}
