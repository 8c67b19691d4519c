package replay

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/robopost/internal/geom"
	"github.com/roach88/robopost/internal/literal"
	"github.com/roach88/robopost/internal/post"
	"github.com/roach88/robopost/internal/program"
	"github.com/roach88/robopost/internal/sink"
)

// RecorderName is the registry name of the recording post.
const RecorderName = "Recorder"

// Recorder configuration keys. They configure the recorder itself and are
// not forwarded to the real backend.
//
// Floats are recorded exactly unless replay_precision is set. A bounded
// precision rounds before the backend rounds again, so the replayed
// program may differ from direct output.
const (
	KeyRealPost  = "real_robot_post"
	KeyPrecision = "replay_precision"
)

// ScriptExt is the extension of saved replay scripts.
const ScriptExt = "star"

const (
	receiver = "robot"
	indent   = "    "
)

func init() {
	post.Register(RecorderName, NewRecorder)
}

// Recorder implements post.Post by recording each call as a line of
// Starlark instead of emitting controller code.
type Recorder struct {
	cfg  post.Config
	env  post.Env
	buf  program.Buffer
	real string
	opts literal.Options
}

// NewRecorder builds a Recorder. The real backend named by
// real_robot_post must be registered.
func NewRecorder(cfg post.Config, env post.Env) (post.Post, error) {
	target := cfg.String(KeyRealPost, "")
	if target == "" {
		return nil, fmt.Errorf("%s requires %s", RecorderName, KeyRealPost)
	}
	if target == RecorderName {
		return nil, fmt.Errorf("%s: cannot record into itself", KeyRealPost)
	}
	if !slices.Contains(post.Names(), target) {
		return nil, fmt.Errorf("%s: %w: %q", KeyRealPost, post.ErrUnknownPost, target)
	}
	return &Recorder{
		cfg:  cfg,
		env:  env,
		real: target,
		opts: literal.Options{Precision: cfg.Int(KeyPrecision, literal.Exact)},
	}, nil
}

// RealPost returns the name of the backend the script will drive.
func (r *Recorder) RealPost() string { return r.real }

func (r *Recorder) ProgStart(name string) {
	r.buf.Start(name)
	r.record(post.KindProgStart, name)
}

func (r *Recorder) ProgFinish(name string) {
	r.buf.Finish(name)
	r.record(post.KindProgFinish, name)
}

// ProgSave writes <folder>/<name>.star. The save itself is not recorded;
// the script ends with its own save against the real backend.
func (r *Recorder) ProgSave(folder, name string, opts post.SaveOptions) error {
	_, err := post.Save(post.SaveRequest{
		Config:   r.cfg,
		Env:      r.env,
		Buffer:   &r.buf,
		Folder:   folder,
		Name:     name,
		Ext:      ScriptExt,
		Encoding: sink.UTF8,
		Options:  opts,
		Lines:    r.Script(folder, name),
	})
	return err
}

func (r *Recorder) ProgSendRobot(ctx context.Context, ip, remotePath, user, pass string) error {
	return post.SendFiles(ctx, r.env, r.buf.SavedFiles(), ip, remotePath, user, pass)
}

func (r *Recorder) MoveJ(pose *geom.Pose, joints []float64, conf []int) {
	r.record(post.KindMoveJ, posePtr(pose), floats(joints), ints(conf))
}

func (r *Recorder) MoveL(pose *geom.Pose, joints []float64, conf []int) {
	r.record(post.KindMoveL, posePtr(pose), floats(joints), ints(conf))
}

func (r *Recorder) MoveC(pose1 *geom.Pose, joints1 []float64, pose2 *geom.Pose, joints2 []float64, conf1, conf2 []int) {
	r.record(post.KindMoveC, posePtr(pose1), floats(joints1), posePtr(pose2), floats(joints2), ints(conf1), ints(conf2))
}

func (r *Recorder) SetFrame(pose geom.Pose, id int, name string) {
	r.record(post.KindSetFrame, poseCall(pose), id, name)
}

func (r *Recorder) SetTool(pose geom.Pose, id int, name string) {
	r.record(post.KindSetTool, poseCall(pose), id, name)
}

func (r *Recorder) Pause(ms float64) {
	r.record(post.KindPause, ms)
}

func (r *Recorder) SetSpeed(mmPerSec float64) {
	r.record(post.KindSetSpeed, mmPerSec)
}

func (r *Recorder) SetAcceleration(mmPerSec2 float64) {
	r.record(post.KindSetAcceleration, mmPerSec2)
}

func (r *Recorder) SetSpeedJoints(degPerSec float64) {
	r.record(post.KindSetSpeedJoints, degPerSec)
}

func (r *Recorder) SetAccelerationJoints(degPerSec2 float64) {
	r.record(post.KindSetAccelerationJoints, degPerSec2)
}

func (r *Recorder) SetZoneData(mm float64) {
	r.record(post.KindSetZoneData, mm)
}

func (r *Recorder) SetDigitalOutput(ref post.Ref, value post.IoValue) {
	r.record(post.KindSetDigitalOutput, refValue(ref), ioValue(value))
}

func (r *Recorder) WaitDigitalInput(ref post.Ref, value post.IoValue, timeoutMs float64) {
	r.record(post.KindWaitDigitalInput, refValue(ref), ioValue(value), timeoutMs)
}

func (r *Recorder) RunCode(code string, isFunctionCall bool) {
	r.record(post.KindRunCode, code, isFunctionCall)
}

func (r *Recorder) RunMessage(text string, isComment bool) {
	r.record(post.KindRunMessage, text, isComment)
}

func (r *Recorder) Log() string         { return r.buf.Log() }
func (r *Recorder) Lines() []string     { return r.buf.Lines() }
func (r *Recorder) Config() post.Config { return r.cfg }

// record appends robot.<kind>(<param>=<literal>, ...) to the buffer.
// values are positional, in post.Params(kind) order.
func (r *Recorder) record(kind post.Kind, values ...any) {
	params := post.Params(kind)
	if len(params) != len(values) {
		post.Degrade(&r.buf, kind, fmt.Errorf("recorded %d values for %d parameters", len(values), len(params)))
		return
	}

	args := make([]string, len(params))
	for i, v := range values {
		lv, err := literal.FromGo(v)
		if err != nil {
			post.Degrade(&r.buf, kind, fmt.Errorf("%s: %w", params[i], err))
			return
		}
		args[i] = params[i] + "=" + literal.Render(lv, r.opts)
	}

	line := fmt.Sprintf("%s.%s(%s)", receiver, kind, strings.Join(args, ", "))
	slog.Debug("recorded instruction", "kind", kind, "line", r.buf.Len()+1)
	r.buf.AddLine(line)
}

// Script returns the full replay script for the current recording, ending
// with a save of the real program as <folder>/<name>.
func (r *Recorder) Script(folder, name string) []string {
	calls := r.buf.Lines()
	lines := make([]string, 0, len(calls)+10)
	lines = append(lines,
		"# Replay script generated by robopost.",
		fmt.Sprintf("# Backend: %s. Run with: robopost replay %s.%s", r.real, name, ScriptExt),
		"",
		"def run_post():",
		indent+receiver+" = "+r.constructor(),
	)
	for _, c := range calls {
		lines = append(lines, indent+c)
	}
	lines = append(lines,
		fmt.Sprintf("%s%s.%s(folder=%s, progname=%s)", indent, receiver, post.KindProgSave,
			literal.Render(literal.String(folder), r.opts),
			literal.Render(literal.String(name), r.opts)),
		"",
		"run_post()",
	)
	return lines
}

// constructor renders the RobotPost(...) call that builds the real backend
// with the recorder's base fields and forwarded extra keys.
func (r *Recorder) constructor() string {
	args := []string{
		literal.Render(literal.String(r.real), r.opts),
		literal.Render(literal.String(r.cfg.Name), r.opts),
		literal.Render(literal.Int(r.cfg.Axes), r.opts),
	}

	var odd literal.Dict
	for _, k := range r.cfg.SortedExtraKeys() {
		if k == KeyRealPost || k == KeyPrecision {
			continue
		}
		lv, err := literal.FromGo(r.cfg.Extra[k])
		if err != nil {
			r.buf.AddLog(fmt.Sprintf("config key %q not forwarded: %v", k, err))
			continue
		}
		if !isIdent(k) {
			odd = append(odd, literal.E(k, lv))
			continue
		}
		args = append(args, k+"="+literal.Render(lv, r.opts))
	}
	if len(odd) > 0 {
		args = append(args, "**"+literal.Render(odd, r.opts))
	}
	return "RobotPost(" + strings.Join(args, ", ") + ")"
}

func posePtr(p *geom.Pose) literal.Value {
	if p == nil {
		return literal.Null{}
	}
	return poseCall(*p)
}

// poseCall spells a pose as Pose([[...], ...]), row-major.
func poseCall(p geom.Pose) literal.Value {
	rows := make(literal.List, len(p))
	for i := range rows {
		row := make(literal.List, len(p[i]))
		for j := range row {
			row[j] = literal.Float(p[i][j])
		}
		rows[i] = row
	}
	return literal.Call{Func: "Pose", Args: []literal.Value{rows}}
}

func floats(v []float64) any {
	if v == nil {
		return nil
	}
	return v
}

func ints(v []int) any {
	if v == nil {
		return nil
	}
	return v
}

func refValue(ref post.Ref) literal.Value {
	if name, ok := ref.Name(); ok {
		return literal.String(name)
	}
	n, _ := ref.Index()
	return literal.Int(n)
}

func ioValue(v post.IoValue) literal.Value {
	if tok, ok := v.Literal(); ok {
		return literal.String(tok)
	}
	b, _ := v.Bool()
	return literal.Bool(b)
}

var keywords = map[string]bool{
	"and": true, "break": true, "continue": true, "def": true, "elif": true,
	"else": true, "for": true, "if": true, "in": true, "lambda": true,
	"load": true, "not": true, "or": true, "pass": true, "return": true,
	"while": true, "True": true, "False": true, "None": true,
}

// isIdent reports whether s can be written as a keyword argument name.
func isIdent(s string) bool {
	if s == "" || keywords[s] {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
