package dialect

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/robopost/internal/geom"
	"github.com/roach88/robopost/internal/post"
	"github.com/roach88/robopost/internal/program"
	"github.com/roach88/robopost/internal/sink"
)

// PreciseName is the registry name of the Precise GPL dialect.
const PreciseName = "Precise"

const gplIndent = "        "

func init() {
	post.Register(PreciseName, NewPrecise)
}

// preciseJoints renders "j1, j2, ..." with three decimals.
var preciseJoints = geom.JointFormat{Sep: ", ", Precision: 3}

// Precise generates Guidance Programming Language modules for Precise
// Automation controllers.
//
// The first program of a file opens the module and becomes Sub MAIN with
// a default motion profile; later programs become their own Subs. The
// module is closed when the file is saved. Targets are joint locations;
// reference frame and tool emit nothing and only apply to moves that
// arrive with a pose and no joints.
type Precise struct {
	cfg      post.Config
	env      post.Env
	buf      program.Buffer
	ext      string
	encoding string

	frame geom.Pose
	tool  geom.Pose
}

// NewPrecise builds a Precise post.
func NewPrecise(cfg post.Config, env post.Env) (post.Post, error) {
	enc := cfg.String(OptEncoding, sink.UTF8)
	if _, err := sink.LookupEncoding(enc); err != nil {
		return nil, err
	}
	return &Precise{
		cfg:      cfg,
		env:      env,
		ext:      cfg.String(OptProgExt, "gpl"),
		encoding: enc,
		frame:    geom.Identity(),
		tool:     geom.Identity(),
	}, nil
}

func (p *Precise) ProgStart(name string) {
	if p.buf.Start(name) > 1 {
		p.buf.AddLine(fmt.Sprintf("    Public Sub %s", name))
		return
	}
	p.buf.AddLine("Module GPL")
	p.buf.AddLine("    Public Sub MAIN")
	p.addLine("Dim prof1 As New Profile")
	p.addLine("Dim loc1 As New Location")
	p.addLine("prof1.Speed = 40")
	p.addLine("prof1.Straight = True")
	p.addLine("Controller.PowerEnabled = 1")
	p.addLine("Robot.Attached = 1")
	p.addLine("Robot.Home")
}

func (p *Precise) ProgFinish(name string) {
	p.buf.Finish(name)
	p.buf.AddLine("    End Sub")
}

// ProgSave closes the module and writes it.
func (p *Precise) ProgSave(folder, name string, opts post.SaveOptions) error {
	lines := p.buf.Lines()
	if p.buf.Programs() > 0 {
		lines = append(lines, "End Module")
	}
	_, err := post.Save(post.SaveRequest{
		Config:   p.cfg,
		Env:      p.env,
		Buffer:   &p.buf,
		Folder:   folder,
		Name:     name,
		Ext:      p.ext,
		Encoding: p.encoding,
		Options:  opts,
		Lines:    lines,
	})
	return err
}

func (p *Precise) ProgSendRobot(ctx context.Context, ip, remotePath, user, pass string) error {
	return post.SendFiles(ctx, p.env, p.buf.SavedFiles(), ip, remotePath, user, pass)
}

func (p *Precise) MoveJ(pose *geom.Pose, joints []float64, conf []int) {
	if loc, ok := p.location(post.KindMoveJ, pose, joints); ok {
		p.addLine(fmt.Sprintf("Move.Loc(loc1.XYZValue(%s),prof1)", loc))
	}
}

func (p *Precise) MoveL(pose *geom.Pose, joints []float64, conf []int) {
	if loc, ok := p.location(post.KindMoveL, pose, joints); ok {
		p.addLine(fmt.Sprintf("Move.Loc(loc1.XYZValue(%s),prof1)", loc))
	}
}

func (p *Precise) MoveC(pose1 *geom.Pose, joints1 []float64, pose2 *geom.Pose, joints2 []float64, conf1, conf2 []int) {
	l1, ok := p.location(post.KindMoveC, pose1, joints1)
	if !ok {
		return
	}
	l2, ok := p.location(post.KindMoveC, pose2, joints2)
	if !ok {
		return
	}
	p.addLine(fmt.Sprintf("Move.Circle(loc1.XYZValue(%s),loc1.XYZValue(%s),prof1)", l1, l2))
}

// location renders the values of a loc1.XYZValue target. The joint target
// wins when present; a move that only carries a pose is mapped into base
// coordinates through the active frame and tool.
func (p *Precise) location(kind post.Kind, pose *geom.Pose, joints []float64) (string, bool) {
	if len(joints) > 0 || pose == nil {
		return encodeJoints(&p.buf, p.cfg, kind, joints, preciseJoints)
	}
	s, err := geom.EncodePose(p.absolute(*pose), geom.CSV)
	if err != nil {
		post.Degrade(&p.buf, kind, err)
		return "", false
	}
	return s, true
}

func (p *Precise) SetFrame(pose geom.Pose, id int, name string) {
	p.frame = pose
}

func (p *Precise) SetTool(pose geom.Pose, id int, name string) {
	p.tool = pose
}

// absolute maps a target given in the active frame and tool onto the
// robot flange in base coordinates: frame · target · tool⁻¹.
func (p *Precise) absolute(target geom.Pose) geom.Pose {
	return p.frame.Mul(target).Mul(p.tool.Inverse())
}

func (p *Precise) Pause(ms float64) {
	if ms < 0 {
		p.addLine(`MsgBox("Program paused. Press OK to continue.")`)
		return
	}
	p.addLine(fmt.Sprintf("Move.Delay(%.3f)", ms*0.001))
}

func (p *Precise) SetSpeed(mmPerSec float64) {
	p.addLine(fmt.Sprintf("prof1.Speed = %0.2f", mmPerSec))
}

// SetAcceleration sets acceleration and deceleration, as a percentage of
// the robot maximum.
func (p *Precise) SetAcceleration(percent float64) {
	p.addLine(fmt.Sprintf("prof1.Accel = %0.2f", percent))
	p.addLine(fmt.Sprintf("prof1.Decel = %0.2f", percent))
}

func (p *Precise) SetSpeedJoints(degPerSec float64) {
	post.Unsupported(&p.buf, PreciseName, post.KindSetSpeedJoints, fmt.Sprintf("%.2f deg/s", degPerSec))
}

func (p *Precise) SetAccelerationJoints(degPerSec2 float64) {
	post.Unsupported(&p.buf, PreciseName, post.KindSetAccelerationJoints, fmt.Sprintf("%.2f deg/s2", degPerSec2))
}

func (p *Precise) SetZoneData(mm float64) {
	post.Unsupported(&p.buf, PreciseName, post.KindSetZoneData, fmt.Sprintf("%.1f mm", mm))
}

func (p *Precise) SetDigitalOutput(ref post.Ref, value post.IoValue) {
	p.buf.AddLine(ioAssign(ref, value))
}

func (p *Precise) WaitDigitalInput(ref post.Ref, value post.IoValue, timeoutMs float64) {
	p.buf.AddLine(ioWait(ref, value, timeoutMs))
}

func (p *Precise) RunCode(code string, isFunctionCall bool) {
	if isFunctionCall {
		code = post.FunctionCall(code)
	}
	p.buf.AddLine(code)
}

func (p *Precise) RunMessage(text string, isComment bool) {
	if isComment {
		p.buf.AddLine("' " + text)
		return
	}
	p.buf.AddLine(`Print "` + strings.ReplaceAll(text, `"`, `""`) + `"`)
}

func (p *Precise) Log() string         { return p.buf.Log() }
func (p *Precise) Lines() []string     { return p.buf.Lines() }
func (p *Precise) Config() post.Config { return p.cfg }

func (p *Precise) addLine(s string) {
	p.buf.AddLine(gplIndent + s)
}
