package dialect

import (
	"context"
	"fmt"

	"github.com/roach88/robopost/internal/geom"
	"github.com/roach88/robopost/internal/post"
	"github.com/roach88/robopost/internal/program"
	"github.com/roach88/robopost/internal/sink"
)

// GenericName is the registry name of the generic dialect.
const GenericName = "Generic"

func init() {
	post.Register(GenericName, NewGeneric)
}

// Generic is a plain-text dialect close to the controller-neutral sample
// syntax: PROC/ENDPROC blocks, MOVJ with labelled joints, MOVL/MOVC with
// XYZRPW poses.
type Generic struct {
	cfg      post.Config
	env      post.Env
	buf      program.Buffer
	ext      string
	encoding string
}

// NewGeneric builds a Generic post.
func NewGeneric(cfg post.Config, env post.Env) (post.Post, error) {
	enc := cfg.String(OptEncoding, sink.UTF8)
	if _, err := sink.LookupEncoding(enc); err != nil {
		return nil, err
	}
	return &Generic{
		cfg:      cfg,
		env:      env,
		ext:      cfg.String(OptProgExt, "txt"),
		encoding: enc,
	}, nil
}

func (g *Generic) ProgStart(name string) {
	g.buf.Start(name)
	g.buf.AddLine(fmt.Sprintf("PROC %s()", name))
}

func (g *Generic) ProgFinish(name string) {
	g.buf.Finish(name)
	g.buf.AddLine("ENDPROC")
}

func (g *Generic) ProgSave(folder, name string, opts post.SaveOptions) error {
	_, err := post.Save(post.SaveRequest{
		Config:   g.cfg,
		Env:      g.env,
		Buffer:   &g.buf,
		Folder:   folder,
		Name:     name,
		Ext:      g.ext,
		Encoding: g.encoding,
		Options:  opts,
	})
	return err
}

func (g *Generic) ProgSendRobot(ctx context.Context, ip, remotePath, user, pass string) error {
	return post.SendFiles(ctx, g.env, g.buf.SavedFiles(), ip, remotePath, user, pass)
}

func (g *Generic) MoveJ(pose *geom.Pose, joints []float64, conf []int) {
	j, ok := g.joints(post.KindMoveJ, joints)
	if !ok {
		return
	}
	g.buf.AddLine("MOVJ " + j)
}

func (g *Generic) MoveL(pose *geom.Pose, joints []float64, conf []int) {
	p, ok := g.target(post.KindMoveL, pose, joints)
	if !ok {
		return
	}
	g.buf.AddLine("MOVL " + p)
}

func (g *Generic) MoveC(pose1 *geom.Pose, joints1 []float64, pose2 *geom.Pose, joints2 []float64, conf1, conf2 []int) {
	p1, ok := g.target(post.KindMoveC, pose1, joints1)
	if !ok {
		return
	}
	p2, ok := g.target(post.KindMoveC, pose2, joints2)
	if !ok {
		return
	}
	g.buf.AddLine("MOVC " + p1 + " " + p2)
}

func (g *Generic) SetFrame(pose geom.Pose, id int, name string) {
	if p, ok := g.pose(post.KindSetFrame, &pose); ok {
		g.buf.AddLine("BASE_FRAME " + p)
	}
}

func (g *Generic) SetTool(pose geom.Pose, id int, name string) {
	if p, ok := g.pose(post.KindSetTool, &pose); ok {
		g.buf.AddLine("TOOL_FRAME " + p)
	}
}

func (g *Generic) Pause(ms float64) {
	if ms < 0 {
		g.buf.AddLine("PAUSE")
		return
	}
	g.buf.AddLine(fmt.Sprintf("WAIT %.3f", ms*0.001))
}

func (g *Generic) SetSpeed(mmPerSec float64) {
	post.Unsupported(&g.buf, GenericName, post.KindSetSpeed, fmt.Sprintf("%.2f mm/s", mmPerSec))
}

func (g *Generic) SetAcceleration(mmPerSec2 float64) {
	post.Unsupported(&g.buf, GenericName, post.KindSetAcceleration, fmt.Sprintf("%.2f mm/s2", mmPerSec2))
}

func (g *Generic) SetSpeedJoints(degPerSec float64) {
	post.Unsupported(&g.buf, GenericName, post.KindSetSpeedJoints, fmt.Sprintf("%.2f deg/s", degPerSec))
}

func (g *Generic) SetAccelerationJoints(degPerSec2 float64) {
	post.Unsupported(&g.buf, GenericName, post.KindSetAccelerationJoints, fmt.Sprintf("%.2f deg/s2", degPerSec2))
}

func (g *Generic) SetZoneData(mm float64) {
	post.Unsupported(&g.buf, GenericName, post.KindSetZoneData, fmt.Sprintf("%.1f mm", mm))
}

func (g *Generic) SetDigitalOutput(ref post.Ref, value post.IoValue) {
	g.buf.AddLine(ioAssign(ref, value))
}

func (g *Generic) WaitDigitalInput(ref post.Ref, value post.IoValue, timeoutMs float64) {
	g.buf.AddLine(ioWait(ref, value, timeoutMs))
}

func (g *Generic) RunCode(code string, isFunctionCall bool) {
	if isFunctionCall {
		code = post.FunctionCall(code)
	}
	g.buf.AddLine(code)
}

func (g *Generic) RunMessage(text string, isComment bool) {
	if isComment {
		g.buf.AddLine("% " + text)
		return
	}
	g.buf.AddLine("% Show message: " + text)
}

func (g *Generic) Log() string         { return g.buf.Log() }
func (g *Generic) Lines() []string     { return g.buf.Lines() }
func (g *Generic) Config() post.Config { return g.cfg }

func (g *Generic) joints(kind post.Kind, joints []float64) (string, bool) {
	return encodeJoints(&g.buf, g.cfg, kind, joints, geom.LabelledJoints)
}

// target renders a Cartesian move target. A move without a pose falls
// back to its joint target.
func (g *Generic) target(kind post.Kind, pose *geom.Pose, joints []float64) (string, bool) {
	if pose == nil {
		if len(joints) == 0 {
			post.Degrade(&g.buf, kind, fmt.Errorf("no pose or joint target, instruction skipped"))
			return "", false
		}
		g.buf.AddLog(fmt.Sprintf("%s: no pose target, using the joint target", kind))
		return g.joints(kind, joints)
	}
	return g.pose(kind, pose)
}

func (g *Generic) pose(kind post.Kind, pose *geom.Pose) (string, bool) {
	s, err := geom.EncodePose(*pose, geom.XYZWPR)
	if err != nil {
		post.Degrade(&g.buf, kind, err)
		return "", false
	}
	return s, true
}

// encodeJoints renders joints, logging axis-count mismatches and turning
// encoding failures into log entries.
func encodeJoints(log post.Logger, cfg post.Config, kind post.Kind, joints []float64, f geom.JointFormat) (string, bool) {
	if len(joints) != cfg.Axes {
		log.AddLog(fmt.Sprintf("%s: got %d joint values for a %d-axis robot", kind, len(joints), cfg.Axes))
	}
	s, err := geom.EncodeJoints(joints, f)
	if err != nil {
		post.Degrade(log, kind, err)
		return "", false
	}
	return s, true
}
