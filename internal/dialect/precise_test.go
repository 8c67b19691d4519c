package dialect

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/robopost/internal/geom"
	"github.com/roach88/robopost/internal/post"
	"github.com/roach88/robopost/internal/testutil"
)

func nanValue() float64 {
	return math.NaN()
}

func newPrecise(t *testing.T) *Precise {
	t.Helper()
	p, err := post.New(post.Config{Post: PreciseName, Name: "PF400", Axes: 6}, post.Env{})
	require.NoError(t, err)
	return p.(*Precise)
}

func TestPreciseModuleHeaderOnce(t *testing.T) {
	p := newPrecise(t)
	p.ProgStart("Main")
	p.ProgFinish("Main")
	p.ProgStart("Second")
	p.ProgFinish("Second")

	lines := p.Lines()
	assert.Equal(t, "Module GPL", lines[0])
	assert.Equal(t, "    Public Sub MAIN", lines[1])
	assert.Equal(t, 1, strings.Count(strings.Join(lines, "\n"), "Module GPL"))
	assert.Contains(t, lines, "    Public Sub Second")
	assert.Equal(t, "    End Sub", lines[len(lines)-1])
}

func TestPreciseSaveClosesModule(t *testing.T) {
	dir := t.TempDir()
	p := newPrecise(t)
	p.ProgStart("Main")
	p.MoveJ(nil, []float64{1, 2, 3, 4, 5, 6}, nil)
	p.ProgFinish("Main")
	require.NoError(t, p.ProgSave(dir, "Main", post.SaveOptions{}))

	data, err := os.ReadFile(filepath.Join(dir, "Main.gpl"))
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "Module GPL\n"))
	assert.Contains(t, text, "        Move.Loc(loc1.XYZValue(1.000, 2.000, 3.000, 4.000, 5.000, 6.000),prof1)\n")
	assert.True(t, strings.HasSuffix(text, "    End Sub\nEnd Module\n"))

	// A second file in the same session gets its own header.
	p.ProgStart("Again")
	p.ProgFinish("Again")
	assert.Equal(t, "Module GPL", p.Lines()[0])
}

func TestPreciseSaveWithoutProgram(t *testing.T) {
	dir := t.TempDir()
	p := newPrecise(t)
	require.NoError(t, p.ProgSave(dir, "Empty", post.SaveOptions{}))

	data, err := os.ReadFile(filepath.Join(dir, "Empty.gpl"))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestPrecisePauseAndProfile(t *testing.T) {
	p := newPrecise(t)
	p.Pause(1500)
	p.Pause(-1)
	p.SetSpeed(30)
	p.SetAcceleration(75)

	assert.Equal(t, []string{
		"        Move.Delay(1.500)",
		`        MsgBox("Program paused. Press OK to continue.")`,
		"        prof1.Speed = 30.00",
		"        prof1.Accel = 75.00",
		"        prof1.Decel = 75.00",
	}, p.Lines())
}

func TestPreciseUnsupportedLogged(t *testing.T) {
	p := newPrecise(t)
	p.SetSpeedJoints(10)
	p.SetAccelerationJoints(10)
	p.SetZoneData(5)

	assert.Empty(t, p.Lines())
	assert.Equal(t, 3, strings.Count(p.Log(), "not supported by Precise"))
}

func TestPreciseCircle(t *testing.T) {
	p := newPrecise(t)
	p.MoveC(nil, []float64{1, 1, 1, 1, 1, 1}, nil, []float64{2, 2, 2, 2, 2, 2}, nil, nil)
	assert.Equal(t, []string{
		"        Move.Circle(loc1.XYZValue(1.000, 1.000, 1.000, 1.000, 1.000, 1.000),loc1.XYZValue(2.000, 2.000, 2.000, 2.000, 2.000, 2.000),prof1)",
	}, p.Lines())
}

func TestPreciseFrameAndToolAreState(t *testing.T) {
	p := newPrecise(t)
	frame := geom.FromXYZRPW(100, 0, 0, 0, 0, 0)
	tool := geom.FromXYZRPW(0, 0, 50, 0, 0, 0)
	p.SetFrame(frame, 1, "Frame 1")
	p.SetTool(tool, 1, "Tool 1")

	assert.Empty(t, p.Lines())
	assert.Equal(t, frame, p.frame)
	assert.Equal(t, tool, p.tool)

	abs := p.absolute(geom.FromXYZRPW(10, 20, 30, 0, 0, 0))
	pos := abs.Position()
	assert.InDelta(t, 110, pos[0], 1e-9)
	assert.InDelta(t, 20, pos[1], 1e-9)
	assert.InDelta(t, -20, pos[2], 1e-9)
}

func TestPreciseCartesianTargetUsesFrameAndTool(t *testing.T) {
	p := newPrecise(t)
	p.SetFrame(geom.FromXYZRPW(100, 0, 0, 0, 0, 0), 1, "Frame 1")
	p.SetTool(geom.FromXYZRPW(0, 0, 50, 0, 0, 0), 1, "Tool 1")
	p.MoveL(testutil.Pose(10, 20, 30, 0, 0, 90), nil, nil)
	p.MoveJ(testutil.Pose(10, 20, 30, 0, 0, 90), []float64{1, 2, 3, 4, 5, 6}, nil)

	assert.Equal(t, []string{
		"        Move.Loc(loc1.XYZValue(110.000, 20.000, -20.000, 0.000, 0.000, 90.000),prof1)",
		"        Move.Loc(loc1.XYZValue(1.000, 2.000, 3.000, 4.000, 5.000, 6.000),prof1)",
	}, p.Lines())
	assert.Empty(t, p.Log())
}

func TestPreciseMessages(t *testing.T) {
	p := newPrecise(t)
	p.RunMessage("a comment", true)
	p.RunMessage(`say "hi"`, false)
	assert.Equal(t, []string{"' a comment", `Print "say ""hi"""`}, p.Lines())
}

func TestPreciseSampleProgramGolden(t *testing.T) {
	p := newPrecise(t)
	testutil.SampleProgram(p, "Sample")

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "precise_sample", []byte(strings.Join(p.Lines(), "\n")+"\n"))
}
