package harness

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/roach88/robopost/internal/geom"
	"github.com/roach88/robopost/internal/post"
)

// Options configures Run.
type Options struct {
	// OutDir is the base for relative ProgSave folders. ProgSave steps
	// without a folder write here.
	OutDir string

	// SkipSave ignores ProgSave steps, leaving the program in the buffer.
	SkipSave bool

	// ShowResult opens every saved file, whatever the step says.
	ShowResult bool

	// Viewer names the program used to open saved files.
	Viewer string
}

// Result is what a run produced.
type Result struct {
	// Lines holds every emitted line in order, across saves.
	Lines []string

	// Log is the backend's diagnostic log after the last step.
	Log string

	// Saves counts the ProgSave steps executed.
	Saves int
}

// StepError reports a step whose arguments could not be used, or a save
// that failed.
type StepError struct {
	Index int
	Step  Step
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s, line %d): %v", e.Index+1, e.Step.Kind, e.Step.Line, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Run executes prog's steps against p and then checks its assertions.
// Assertion failures are returned as *AssertionError.
func Run(prog *Program, p post.Post, opts Options) (*Result, error) {
	result := &Result{}

	for i, step := range prog.Steps {
		if step.Kind == post.KindProgSave {
			if opts.SkipSave {
				continue
			}
			// Saving clears the buffer; keep what it held.
			result.Lines = append(result.Lines, p.Lines()...)
			result.Saves++
		}
		if err := execute(p, step, opts); err != nil {
			return result, &StepError{Index: i, Step: step, Err: err}
		}
	}
	result.Lines = append(result.Lines, p.Lines()...)
	result.Log = p.Log()

	slog.Debug("program executed", "program", prog.Name, "steps", len(prog.Steps), "lines", len(result.Lines))

	if err := checkAssertions(prog.Assertions, result); err != nil {
		return result, err
	}
	return result, nil
}

func execute(p post.Post, step Step, opts Options) error {
	a := args{m: step.Args}

	switch step.Kind {
	case post.KindProgStart:
		name := a.str("progname", "")
		if a.err == nil {
			p.ProgStart(name)
		}
	case post.KindProgFinish:
		name := a.str("progname", "")
		if a.err == nil {
			p.ProgFinish(name)
		}
	case post.KindProgSave:
		folder := a.str("folder", "")
		name := a.str("progname", "")
		saveOpts := post.SaveOptions{
			AskUser:    a.bool("ask_user"),
			ShowResult: a.bool("show_result") || opts.ShowResult,
			Viewer:     opts.Viewer,
		}
		if opts.OutDir != "" && !filepath.IsAbs(folder) {
			folder = filepath.Join(opts.OutDir, folder)
		}
		if a.err == nil {
			return p.ProgSave(folder, name, saveOpts)
		}
	case post.KindMoveJ:
		pose, joints, conf := a.pose("pose"), a.floats("joints"), a.ints("conf")
		if a.err == nil {
			p.MoveJ(pose, joints, conf)
		}
	case post.KindMoveL:
		pose, joints, conf := a.pose("pose"), a.floats("joints"), a.ints("conf")
		if a.err == nil {
			p.MoveL(pose, joints, conf)
		}
	case post.KindMoveC:
		pose1, joints1 := a.pose("pose1"), a.floats("joints1")
		pose2, joints2 := a.pose("pose2"), a.floats("joints2")
		conf1, conf2 := a.ints("conf1"), a.ints("conf2")
		if a.err == nil {
			p.MoveC(pose1, joints1, pose2, joints2, conf1, conf2)
		}
	case post.KindSetFrame:
		pose, id, name := a.requiredPose("pose"), a.int("frame_id", -1), a.str("frame_name", "")
		if a.err == nil {
			p.SetFrame(pose, id, name)
		}
	case post.KindSetTool:
		pose, id, name := a.requiredPose("pose"), a.int("tool_id", -1), a.str("tool_name", "")
		if a.err == nil {
			p.SetTool(pose, id, name)
		}
	case post.KindPause:
		ms := a.float("time_ms", nil)
		if a.err == nil {
			p.Pause(ms)
		}
	case post.KindSetSpeed:
		v := a.float("speed_mms", nil)
		if a.err == nil {
			p.SetSpeed(v)
		}
	case post.KindSetAcceleration:
		v := a.float("accel_mmss", nil)
		if a.err == nil {
			p.SetAcceleration(v)
		}
	case post.KindSetSpeedJoints:
		v := a.float("speed_degs", nil)
		if a.err == nil {
			p.SetSpeedJoints(v)
		}
	case post.KindSetAccelerationJoints:
		v := a.float("accel_degss", nil)
		if a.err == nil {
			p.SetAccelerationJoints(v)
		}
	case post.KindSetZoneData:
		v := a.float("zone_mm", nil)
		if a.err == nil {
			p.SetZoneData(v)
		}
	case post.KindSetDigitalOutput:
		ref, value := a.ref("io_var"), a.io("io_value")
		if a.err == nil {
			p.SetDigitalOutput(ref, value)
		}
	case post.KindWaitDigitalInput:
		noTimeout := -1.0
		ref, value, timeout := a.ref("io_var"), a.io("io_value"), a.float("timeout_ms", &noTimeout)
		if a.err == nil {
			p.WaitDigitalInput(ref, value, timeout)
		}
	case post.KindRunCode:
		code, isCall := a.str("code", ""), a.bool("is_function_call")
		if a.err == nil {
			p.RunCode(code, isCall)
		}
	case post.KindRunMessage:
		text, isComment := a.str("message", ""), a.bool("is_comment")
		if a.err == nil {
			p.RunMessage(text, isComment)
		}
	default:
		return fmt.Errorf("unknown instruction %q", step.Kind)
	}
	return a.err
}

// args converts YAML-decoded step arguments, keeping the first failure.
type args struct {
	m   map[string]any
	err error
}

func (a *args) fail(name string, err error) {
	if a.err == nil {
		a.err = fmt.Errorf("%s: %w", name, err)
	}
}

func (a *args) str(name, def string) string {
	v, ok := a.m[name]
	if !ok || v == nil {
		return def
	}
	s, ok := v.(string)
	if !ok {
		a.fail(name, fmt.Errorf("want string, got %T", v))
	}
	return s
}

func (a *args) bool(name string) bool {
	v, ok := a.m[name]
	if !ok || v == nil {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		a.fail(name, fmt.Errorf("want bool, got %T", v))
	}
	return b
}

func (a *args) int(name string, def int) int {
	v, ok := a.m[name]
	if !ok || v == nil {
		return def
	}
	n, ok := v.(int)
	if !ok {
		a.fail(name, fmt.Errorf("want integer, got %T", v))
	}
	return n
}

// float reads a number. A nil def makes the argument required.
func (a *args) float(name string, def *float64) float64 {
	v, ok := a.m[name]
	if !ok || v == nil {
		if def == nil {
			a.fail(name, fmt.Errorf("is required"))
			return 0
		}
		return *def
	}
	f, err := toFloat(v)
	if err != nil {
		a.fail(name, err)
	}
	return f
}

func (a *args) floats(name string) []float64 {
	v, ok := a.m[name]
	if !ok || v == nil {
		return nil
	}
	f, err := toFloats(v)
	if err != nil {
		a.fail(name, err)
	}
	return f
}

func (a *args) ints(name string) []int {
	v, ok := a.m[name]
	if !ok || v == nil {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		a.fail(name, fmt.Errorf("want list of integers, got %T", v))
		return nil
	}
	out := make([]int, len(list))
	for i, elem := range list {
		n, ok := elem.(int)
		if !ok {
			a.fail(name, fmt.Errorf("[%d]: want integer, got %T", i, elem))
			return nil
		}
		out[i] = n
	}
	return out
}

func (a *args) pose(name string) *geom.Pose {
	v, ok := a.m[name]
	if !ok || v == nil {
		return nil
	}
	p, err := toPose(v)
	if err != nil {
		a.fail(name, err)
		return nil
	}
	return &p
}

func (a *args) requiredPose(name string) geom.Pose {
	p := a.pose(name)
	if p == nil {
		a.fail(name, fmt.Errorf("is required"))
		return geom.Identity()
	}
	return *p
}

// ref maps an integer to an indexed variable and a string to a named one.
func (a *args) ref(name string) post.Ref {
	switch v := a.m[name].(type) {
	case int:
		return post.Indexed(v)
	case string:
		return post.Named(v)
	default:
		a.fail(name, fmt.Errorf("want integer or string, got %T", v))
		return post.Ref{}
	}
}

// io maps a string to a literal token, a bool to a boolean and a number to
// a boolean by sign.
func (a *args) io(name string) post.IoValue {
	switch v := a.m[name].(type) {
	case string:
		return post.Literal(v)
	case bool:
		return post.Boolean(v)
	case int, float64:
		f, _ := toFloat(v)
		return post.Number(f)
	default:
		a.fail(name, fmt.Errorf("want string, bool or number, got %T", v))
		return post.IoValue{}
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("want number, got %T", v)
	}
}

func toFloats(v any) ([]float64, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("want list of numbers, got %T", v)
	}
	out := make([]float64, len(list))
	for i, elem := range list {
		f, err := toFloat(elem)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// toPose accepts six numbers, {xyzrpw: [...]} or {rows: [[...], ...]}.
func toPose(v any) (geom.Pose, error) {
	switch val := v.(type) {
	case []any:
		if len(val) > 0 {
			if _, nested := val[0].([]any); nested {
				return poseFromRows(val)
			}
		}
		return poseFromXYZRPW(val)
	case map[string]any:
		if len(val) != 1 {
			return geom.Pose{}, fmt.Errorf("pose mapping needs exactly one of xyzrpw or rows")
		}
		if xyz, ok := val["xyzrpw"]; ok {
			list, ok := xyz.([]any)
			if !ok {
				return geom.Pose{}, fmt.Errorf("xyzrpw: want list, got %T", xyz)
			}
			return poseFromXYZRPW(list)
		}
		if rows, ok := val["rows"]; ok {
			list, ok := rows.([]any)
			if !ok {
				return geom.Pose{}, fmt.Errorf("rows: want list, got %T", rows)
			}
			return poseFromRows(list)
		}
		return geom.Pose{}, fmt.Errorf("pose mapping needs xyzrpw or rows")
	default:
		return geom.Pose{}, fmt.Errorf("want pose, got %T", v)
	}
}

func poseFromXYZRPW(list []any) (geom.Pose, error) {
	f, err := toFloats(list)
	if err != nil {
		return geom.Pose{}, err
	}
	if len(f) != 6 {
		return geom.Pose{}, fmt.Errorf("xyzrpw needs 6 numbers, got %d", len(f))
	}
	return geom.FromXYZRPW(f[0], f[1], f[2], f[3], f[4], f[5]), nil
}

func poseFromRows(list []any) (geom.Pose, error) {
	rows := make([][]float64, len(list))
	for i, r := range list {
		row, err := toFloats(r)
		if err != nil {
			return geom.Pose{}, fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = row
	}
	return geom.PoseFromRows(rows)
}
