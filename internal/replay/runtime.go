package replay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/roach88/robopost/internal/geom"
	"github.com/roach88/robopost/internal/post"
)

// RunOptions configures a replay run.
type RunOptions struct {
	// Env is passed to every backend the script constructs.
	Env post.Env

	// Viewer is used when the script saves with show_result=True.
	Viewer string

	// Stdout receives print() output. Nil sends it to the debug log.
	Stdout io.Writer
}

// Result holds the backends a script constructed, in creation order.
type Result struct {
	Posts []post.Post
}

var fileOptions = &syntax.FileOptions{
	Set:            true,
	While:          true,
	GlobalReassign: true,
}

// RunFile reads and executes the script at path.
func RunFile(ctx context.Context, path string, opts RunOptions) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &ScriptError{Path: path, Err: err}
	}
	return Run(ctx, path, src, opts)
}

// Run executes a replay script. filename is used in error messages only.
// Cancelling ctx interrupts the script between Starlark steps.
func Run(ctx context.Context, filename string, src []byte, opts RunOptions) (*Result, error) {
	res := &Result{}
	rt := &runtime{opts: opts, result: res}

	thread := &starlark.Thread{
		Name: "replay",
		Print: func(_ *starlark.Thread, msg string) {
			if opts.Stdout != nil {
				fmt.Fprintln(opts.Stdout, msg)
				return
			}
			slog.Debug("script output", "msg", msg)
		},
	}
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	})
	defer stop()

	predeclared := starlark.StringDict{
		"RobotPost": starlark.NewBuiltin("RobotPost", rt.robotPost),
		"Pose":      starlark.NewBuiltin("Pose", makePose),
	}

	slog.Debug("running replay script", "file", filename)
	if _, err := starlark.ExecFileOptions(fileOptions, thread, filename, src, predeclared); err != nil {
		return res, &ScriptError{Path: filename, Err: err}
	}
	return res, nil
}

type runtime struct {
	opts   RunOptions
	result *Result
}

// robotPost implements RobotPost(robot_post, robot_name, robot_axes, **extra).
func (rt *runtime) robotPost(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var cfg post.Config
	if err := starlark.UnpackPositionalArgs(b.Name(), args, nil, 3, &cfg.Post, &cfg.Name, &cfg.Axes); err != nil {
		return nil, err
	}

	cfg.Extra = make(map[string]any, len(kwargs))
	for _, kv := range kwargs {
		key, _ := starlark.AsString(kv[0])
		v, err := toGo(kv[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", b.Name(), key, err)
		}
		cfg.Extra[key] = v
	}

	p, err := post.New(cfg, rt.opts.Env)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	rt.result.Posts = append(rt.result.Posts, p)
	return &robotValue{post: p, viewer: rt.opts.Viewer}, nil
}

// robotValue exposes a backend to the script. Each instruction kind is a
// method taking the recorded parameter names.
type robotValue struct {
	post   post.Post
	viewer string
}

var (
	_ starlark.Value    = (*robotValue)(nil)
	_ starlark.HasAttrs = (*robotValue)(nil)
)

func (r *robotValue) String() string {
	cfg := r.post.Config()
	return fmt.Sprintf("<RobotPost %s %q>", cfg.Post, cfg.Name)
}

func (r *robotValue) Type() string         { return "RobotPost" }
func (r *robotValue) Freeze()              {}
func (r *robotValue) Truth() starlark.Bool { return starlark.True }

func (r *robotValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: RobotPost")
}

func (r *robotValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "log":
		return starlark.String(r.post.Log()), nil
	}
	if !post.Kind(name).Valid() {
		return nil, nil
	}
	return starlark.NewBuiltin(name, callInstruction).BindReceiver(r), nil
}

func (r *robotValue) AttrNames() []string {
	names := []string{"log"}
	for _, k := range post.Kinds {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names
}

// optional parameters and their defaults when a script leaves them out.
var optional = map[string]starlark.Value{
	"pose":             starlark.None,
	"joints":           starlark.None,
	"conf":             starlark.None,
	"pose1":            starlark.None,
	"joints1":          starlark.None,
	"pose2":            starlark.None,
	"joints2":          starlark.None,
	"conf1":            starlark.None,
	"conf2":            starlark.None,
	"ask_user":         starlark.False,
	"show_result":      starlark.False,
	"timeout_ms":       starlark.MakeInt(-1),
	"is_function_call": starlark.False,
	"is_comment":       starlark.False,
	"frame_id":         starlark.MakeInt(-1),
	"frame_name":       starlark.String(""),
	"tool_id":          starlark.MakeInt(-1),
	"tool_name":        starlark.String(""),
}

func callInstruction(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	r := b.Receiver().(*robotValue)
	kind := post.Kind(b.Name())
	params := post.Params(kind)

	vals := make([]starlark.Value, len(params))
	pairs := make([]any, 0, 2*len(params))
	for i, name := range params {
		if def, ok := optional[name]; ok {
			vals[i] = def
			name += "?"
		}
		pairs = append(pairs, name, &vals[i])
	}
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, pairs...); err != nil {
		return nil, err
	}

	a := &argReader{fn: b.Name(), params: params, vals: vals}
	if err := r.dispatch(kind, a); err != nil {
		return nil, err
	}
	return starlark.None, nil
}

func (r *robotValue) dispatch(kind post.Kind, a *argReader) error {
	p := r.post
	switch kind {
	case post.KindProgStart:
		name := a.str(0)
		if a.err == nil {
			p.ProgStart(name)
		}
	case post.KindProgFinish:
		name := a.str(0)
		if a.err == nil {
			p.ProgFinish(name)
		}
	case post.KindProgSave:
		folder, name := a.str(0), a.str(1)
		opts := post.SaveOptions{AskUser: a.bool(2), ShowResult: a.bool(3), Viewer: r.viewer}
		if a.err == nil {
			return p.ProgSave(folder, name, opts)
		}
	case post.KindMoveJ, post.KindMoveL:
		pose, joints, conf := a.pose(0), a.floats(1), a.ints(2)
		if a.err == nil {
			if kind == post.KindMoveJ {
				p.MoveJ(pose, joints, conf)
			} else {
				p.MoveL(pose, joints, conf)
			}
		}
	case post.KindMoveC:
		pose1, joints1, pose2, joints2 := a.pose(0), a.floats(1), a.pose(2), a.floats(3)
		conf1, conf2 := a.ints(4), a.ints(5)
		if a.err == nil {
			p.MoveC(pose1, joints1, pose2, joints2, conf1, conf2)
		}
	case post.KindSetFrame, post.KindSetTool:
		pose, id, name := a.pose(0), a.int(1), a.str(2)
		if a.err == nil && pose == nil {
			a.fail(0, fmt.Errorf("pose is required"))
		}
		if a.err == nil {
			if kind == post.KindSetFrame {
				p.SetFrame(*pose, id, name)
			} else {
				p.SetTool(*pose, id, name)
			}
		}
	case post.KindPause:
		ms := a.float(0)
		if a.err == nil {
			p.Pause(ms)
		}
	case post.KindSetSpeed, post.KindSetAcceleration, post.KindSetSpeedJoints,
		post.KindSetAccelerationJoints, post.KindSetZoneData:
		v := a.float(0)
		if a.err == nil {
			setters := map[post.Kind]func(float64){
				post.KindSetSpeed:              p.SetSpeed,
				post.KindSetAcceleration:       p.SetAcceleration,
				post.KindSetSpeedJoints:        p.SetSpeedJoints,
				post.KindSetAccelerationJoints: p.SetAccelerationJoints,
				post.KindSetZoneData:           p.SetZoneData,
			}
			setters[kind](v)
		}
	case post.KindSetDigitalOutput:
		ref, value := a.ref(0), a.io(1)
		if a.err == nil {
			p.SetDigitalOutput(ref, value)
		}
	case post.KindWaitDigitalInput:
		ref, value, timeout := a.ref(0), a.io(1), a.float(2)
		if a.err == nil {
			p.WaitDigitalInput(ref, value, timeout)
		}
	case post.KindRunCode:
		code, isCall := a.str(0), a.bool(1)
		if a.err == nil {
			p.RunCode(code, isCall)
		}
	case post.KindRunMessage:
		text, isComment := a.str(0), a.bool(1)
		if a.err == nil {
			p.RunMessage(text, isComment)
		}
	default:
		return fmt.Errorf("%s: unknown instruction", kind)
	}
	return a.err
}

// argReader converts unpacked arguments, keeping the first failure.
type argReader struct {
	fn     string
	params []string
	vals   []starlark.Value
	err    error
}

func (a *argReader) fail(i int, err error) {
	if a.err == nil {
		a.err = fmt.Errorf("%s: %s: %w", a.fn, a.params[i], err)
	}
}

func (a *argReader) str(i int) string {
	s, err := toString(a.vals[i])
	if err != nil {
		a.fail(i, err)
	}
	return s
}

func (a *argReader) bool(i int) bool {
	b, err := toBool(a.vals[i])
	if err != nil {
		a.fail(i, err)
	}
	return b
}

func (a *argReader) int(i int) int {
	n, err := toInt(a.vals[i])
	if err != nil {
		a.fail(i, err)
	}
	return n
}

func (a *argReader) float(i int) float64 {
	f, err := toFloat(a.vals[i])
	if err != nil {
		a.fail(i, err)
	}
	return f
}

func (a *argReader) floats(i int) []float64 {
	f, err := toFloats(a.vals[i])
	if err != nil {
		a.fail(i, err)
	}
	return f
}

func (a *argReader) ints(i int) []int {
	n, err := toInts(a.vals[i])
	if err != nil {
		a.fail(i, err)
	}
	return n
}

func (a *argReader) pose(i int) *geom.Pose {
	p, err := toPose(a.vals[i])
	if err != nil {
		a.fail(i, err)
	}
	return p
}

func (a *argReader) ref(i int) post.Ref {
	r, err := toRef(a.vals[i])
	if err != nil {
		a.fail(i, err)
	}
	return r
}

func (a *argReader) io(i int) post.IoValue {
	v, err := toIoValue(a.vals[i])
	if err != nil {
		a.fail(i, err)
	}
	return v
}
