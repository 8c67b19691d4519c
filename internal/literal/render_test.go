package literal

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

func TestRenderScalars(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"null", Null{}, "None"},
		{"true", Bool(true), "True"},
		{"false", Bool(false), "False"},
		{"int", Int(42), "42"},
		{"negative int", Int(-7), "-7"},
		{"float", Float(1.5), "1.5"},
		{"whole float", Float(3), "3.0"},
		{"zero", Float(0), "0.0"},
		{"negative zero", Float(math.Copysign(0, -1)), "-0.0"},
		{"tiny", Float(1e-17), "0.0"},
		{"large", Float(1e21), "1000000000000000000000.0"},
		{"rounded", Float(0.1234567891234), "0.123456789"},
		{"nan", Float(math.NaN()), `float("nan")`},
		{"inf", Float(math.Inf(1)), `float("inf")`},
		{"-inf", Float(math.Inf(-1)), `-float("inf")`},
		{"string", String("hi"), `"hi"`},
		{"escaped string", String("a\"b\\c\nd"), `"a\"b\\c\nd"`},
		{"unicode string", String("溶接"), `"溶接"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.input, Options{}))
		})
	}
}

func TestRenderPrecision(t *testing.T) {
	assert.Equal(t, "0.12", Render(Float(0.1234), Options{Precision: 2}))
	assert.Equal(t, "0.1", Render(Float(0.1), Options{Precision: Exact}))
	assert.Equal(t, "0.00000000000000001", Render(Float(1e-17), Options{Precision: Exact}))
	assert.Equal(t, "100.0", Render(Float(100), Options{Precision: Exact}))
}

func TestRenderContainers(t *testing.T) {
	v := List{
		Int(1),
		List{Float(2), String("x")},
		Dict{E("b", Bool(true)), E("a", Null{})},
		Call{Func: "Pose", Args: []Value{List{List{Float(1), Float(0)}}}},
	}
	assert.Equal(t, `[1, [2.0, "x"], {"b": True, "a": None}, Pose([[1.0, 0.0]])]`, Render(v, Options{}))
}

func TestRenderNoTruncation(t *testing.T) {
	big := make(List, 5000)
	for i := range big {
		big[i] = Int(i)
	}
	out := Render(big, Options{})
	assert.True(t, strings.HasSuffix(out, "4998, 4999]"))
	assert.Equal(t, 4999, strings.Count(out, ", "))
}

func TestFromGo(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected Value
	}{
		{"nil", nil, Null{}},
		{"bool", true, Bool(true)},
		{"int", 3, Int(3)},
		{"uint8", uint8(7), Int(7)},
		{"float", 2.5, Float(2.5)},
		{"string", "s", String("s")},
		{"floats", []float64{1, 2}, List{Float(1), Float(2)}},
		{"nil floats", []float64(nil), List{}},
		{"ints", []int{0, 1}, List{Int(0), Int(1)}},
		{"rows", [][]float64{{1}, {2}}, List{List{Float(1)}, List{Float(2)}}},
		{"any", []any{1, "a", nil}, List{Int(1), String("a"), Null{}}},
		{"map sorted", map[string]any{"z": 1, "a": 2}, Dict{E("a", Int(2)), E("z", Int(1))}},
		{"value passthrough", Call{Func: "f"}, Call{Func: "f"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := FromGo(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestFromGoRejects(t *testing.T) {
	_, err := FromGo(struct{}{})
	assert.Error(t, err)

	_, err = FromGo(uint64(math.MaxUint64))
	assert.Error(t, err)

	_, err = FromGo(map[string]any{"k": []any{complex(1, 1)}})
	assert.ErrorContains(t, err, `["k"]`)
}

// Rendered literals evaluate back to equal Starlark values.
func TestRenderParsesBack(t *testing.T) {
	thread := &starlark.Thread{Name: "literal"}
	opts := &syntax.FileOptions{}

	tests := []struct {
		input    Value
		expected starlark.Value
	}{
		{Null{}, starlark.None},
		{Bool(true), starlark.True},
		{Int(-12), starlark.MakeInt(-12)},
		{Float(0.25), starlark.Float(0.25)},
		{String("tab\there \"q\" é"), starlark.String("tab\there \"q\" é")},
		{List{Int(1), Float(1.5)}, starlark.NewList([]starlark.Value{starlark.MakeInt(1), starlark.Float(1.5)})},
	}

	for _, tt := range tests {
		src := Render(tt.input, Options{})
		got, err := starlark.EvalOptions(opts, thread, "literal", src, nil)
		require.NoError(t, err, src)
		eq, err := starlark.Equal(got, tt.expected)
		require.NoError(t, err)
		assert.True(t, eq, "%s evaluated to %s", src, got)
	}

	got, err := starlark.EvalOptions(opts, thread, "literal", Render(Float(math.Copysign(0, -1)), Options{}), nil)
	require.NoError(t, err)
	assert.True(t, math.Signbit(float64(got.(starlark.Float))))

	got, err = starlark.EvalOptions(opts, thread, "literal", Render(Float(math.Inf(-1)), Options{}), nil)
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(got.(starlark.Float)), -1))

	got, err = starlark.EvalOptions(opts, thread, "literal", Render(Dict{E("b", Int(1)), E("a", Int(2))}, Options{}), nil)
	require.NoError(t, err)
	assert.Equal(t, `{"b": 1, "a": 2}`, got.String())
}
