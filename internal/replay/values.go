package replay

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/roach88/robopost/internal/geom"
	"github.com/roach88/robopost/internal/literal"
	"github.com/roach88/robopost/internal/post"
)

// poseValue is the Starlark value built by Pose(rows).
type poseValue struct {
	pose geom.Pose
}

var (
	_ starlark.Value    = (*poseValue)(nil)
	_ starlark.HasAttrs = (*poseValue)(nil)
)

func (p *poseValue) String() string {
	return literal.Render(poseCall(p.pose), literal.Options{Precision: literal.Exact})
}

func (p *poseValue) Type() string         { return "Pose" }
func (p *poseValue) Freeze()              {}
func (p *poseValue) Truth() starlark.Bool { return starlark.True }

func (p *poseValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: Pose")
}

func (p *poseValue) Attr(name string) (starlark.Value, error) {
	if name != "xyzrpw" {
		return nil, nil
	}
	f := p.pose.XYZRPW()
	out := make(starlark.Tuple, len(f))
	for i, v := range f {
		out[i] = starlark.Float(v)
	}
	return out, nil
}

func (p *poseValue) AttrNames() []string { return []string{"xyzrpw"} }

// makePose implements Pose(rows).
func makePose(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var rows starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &rows); err != nil {
		return nil, err
	}
	outer, ok := rows.(starlark.Indexable)
	if !ok {
		return nil, fmt.Errorf("%s: rows must be a list, got %s", b.Name(), rows.Type())
	}
	m := make([][]float64, outer.Len())
	for i := range m {
		row, err := toFloats(outer.Index(i))
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", b.Name(), i, err)
		}
		m[i] = row
	}
	pose, err := geom.PoseFromRows(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return &poseValue{pose: pose}, nil
}

func toPose(v starlark.Value) (*geom.Pose, error) {
	if v == starlark.None {
		return nil, nil
	}
	p, ok := v.(*poseValue)
	if !ok {
		return nil, fmt.Errorf("want Pose or None, got %s", v.Type())
	}
	pose := p.pose
	return &pose, nil
}

func toFloats(v starlark.Value) ([]float64, error) {
	if v == starlark.None {
		return nil, nil
	}
	seq, ok := v.(starlark.Indexable)
	if !ok {
		return nil, fmt.Errorf("want list of numbers, got %s", v.Type())
	}
	out := make([]float64, seq.Len())
	for i := range out {
		f, ok := starlark.AsFloat(seq.Index(i))
		if !ok {
			return nil, fmt.Errorf("[%d]: want number, got %s", i, seq.Index(i).Type())
		}
		out[i] = f
	}
	return out, nil
}

func toInts(v starlark.Value) ([]int, error) {
	if v == starlark.None {
		return nil, nil
	}
	seq, ok := v.(starlark.Indexable)
	if !ok {
		return nil, fmt.Errorf("want list of ints, got %s", v.Type())
	}
	out := make([]int, seq.Len())
	for i := range out {
		n, err := starlark.AsInt32(seq.Index(i))
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}

func toFloat(v starlark.Value) (float64, error) {
	f, ok := starlark.AsFloat(v)
	if !ok {
		return 0, fmt.Errorf("want number, got %s", v.Type())
	}
	return f, nil
}

func toInt(v starlark.Value) (int, error) {
	return starlark.AsInt32(v)
}

func toString(v starlark.Value) (string, error) {
	s, ok := starlark.AsString(v)
	if !ok {
		return "", fmt.Errorf("want string, got %s", v.Type())
	}
	return s, nil
}

func toBool(v starlark.Value) (bool, error) {
	b, ok := v.(starlark.Bool)
	if !ok {
		return false, fmt.Errorf("want bool, got %s", v.Type())
	}
	return bool(b), nil
}

// toRef maps an int to an indexed variable and a string to a named one.
func toRef(v starlark.Value) (post.Ref, error) {
	switch x := v.(type) {
	case starlark.String:
		return post.Named(string(x)), nil
	case starlark.Int:
		n, err := starlark.AsInt32(x)
		if err != nil {
			return post.Ref{}, err
		}
		return post.Indexed(n), nil
	default:
		return post.Ref{}, fmt.Errorf("want int or string, got %s", v.Type())
	}
}

// toIoValue maps a string to a literal token, a bool to a boolean, and a
// number to a boolean by sign.
func toIoValue(v starlark.Value) (post.IoValue, error) {
	switch x := v.(type) {
	case starlark.String:
		return post.Literal(string(x)), nil
	case starlark.Bool:
		return post.Boolean(bool(x)), nil
	}
	if f, ok := starlark.AsFloat(v); ok {
		return post.Number(f), nil
	}
	return post.IoValue{}, fmt.Errorf("want string, bool or number, got %s", v.Type())
}

// toGo converts a configuration value passed to RobotPost.
func toGo(v starlark.Value) (any, error) {
	switch x := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Bool:
		return bool(x), nil
	case starlark.Int:
		n, ok := x.Int64()
		if !ok {
			return nil, fmt.Errorf("integer %s out of range", x)
		}
		return n, nil
	case starlark.Float:
		return float64(x), nil
	case starlark.String:
		return string(x), nil
	case *starlark.Dict:
		m := make(map[string]any, x.Len())
		for _, item := range x.Items() {
			k, ok := starlark.AsString(item[0])
			if !ok {
				return nil, fmt.Errorf("dict key must be a string, got %s", item[0].Type())
			}
			val, err := toGo(item[1])
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			m[k] = val
		}
		return m, nil
	case starlark.Indexable:
		out := make([]any, x.Len())
		for i := range out {
			val, err := toGo(x.Index(i))
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported config value of type %s", v.Type())
	}
}
