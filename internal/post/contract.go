package post

import (
	"context"

	"github.com/roach88/robopost/internal/geom"
)

// Post is one robot dialect.
//
// Pose arguments to MoveJ, MoveL and MoveC may be nil when only joint values
// are meaningful. Joint slices have Config().Axes entries. conf carries the
// optional robot configuration flags [rear, lower-arm, flip] and may be nil.
type Post interface {
	// ProgStart begins a program unit.
	ProgStart(name string)
	// ProgFinish closes the current program unit.
	ProgFinish(name string)
	// ProgSave persists every line emitted since the previous save to
	// <folder>/<name>.<ext> and clears the buffer on success.
	ProgSave(folder, name string, opts SaveOptions) error
	// ProgSendRobot hands the saved files to the upload capability.
	ProgSendRobot(ctx context.Context, ip, remotePath, user, pass string) error

	MoveJ(pose *geom.Pose, joints []float64, conf []int)
	MoveL(pose *geom.Pose, joints []float64, conf []int)
	MoveC(pose1 *geom.Pose, joints1 []float64, pose2 *geom.Pose, joints2 []float64, conf1, conf2 []int)

	// SetFrame and SetTool change the reference frame and TCP for later
	// Cartesian moves. id < 0 means the frame has no number.
	SetFrame(pose geom.Pose, id int, name string)
	SetTool(pose geom.Pose, id int, name string)

	// Pause waits ms milliseconds, or until the operator resumes when ms < 0.
	Pause(ms float64)

	SetSpeed(mmPerSec float64)
	SetAcceleration(mmPerSec2 float64)
	SetSpeedJoints(degPerSec float64)
	SetAccelerationJoints(degPerSec2 float64)
	SetZoneData(mm float64)

	SetDigitalOutput(ref Ref, value IoValue)
	// WaitDigitalInput waits indefinitely when timeoutMs < 0.
	WaitDigitalInput(ref Ref, value IoValue, timeoutMs float64)

	RunCode(code string, isFunctionCall bool)
	RunMessage(text string, isComment bool)

	// Log returns the diagnostic log accumulated during the session.
	Log() string
	// Lines returns the lines emitted since the last save.
	Lines() []string
	// Config returns the configuration the post was built from.
	Config() Config
}

// SaveOptions controls how ProgSave resolves and presents the result.
type SaveOptions struct {
	// AskUser lets Env.Resolve pick the destination even when the folder exists.
	AskUser bool

	// ShowResult hands the saved file to a viewer.
	ShowResult bool

	// Viewer names the viewer executable. Empty means the platform default.
	Viewer string
}
