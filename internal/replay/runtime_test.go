package replay

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/robopost/internal/dialect"
	"github.com/roach88/robopost/internal/geom"
	"github.com/roach88/robopost/internal/post"
	"github.com/roach88/robopost/internal/sink"
	"github.com/roach88/robopost/internal/testutil"
)

// replayMatchesDirect drives program once into the real backend and once
// through a recorder and its replayed script, then compares the files.
func replayMatchesDirect(t *testing.T, backend, ext string, extra map[string]any, program func(post.Post, string)) {
	t.Helper()
	directDir := t.TempDir()
	replayDir := t.TempDir()

	direct, err := post.New(post.Config{Post: backend, Name: "UR5", Axes: 6, Extra: extra}, post.Env{})
	require.NoError(t, err)
	program(direct, "Prog")
	directLines := direct.Lines()
	require.NoError(t, direct.ProgSave(directDir, "Prog", post.SaveOptions{}))

	recExtra := map[string]any{KeyRealPost: backend}
	for k, v := range extra {
		recExtra[k] = v
	}
	rec, err := post.New(post.Config{Post: RecorderName, Name: "UR5", Axes: 6, Extra: recExtra}, post.Env{})
	require.NoError(t, err)
	program(rec, "Prog")
	require.NoError(t, rec.ProgSave(replayDir, "Prog", post.SaveOptions{}))

	var replayedLines []string
	env := post.Env{Observe: func(ev post.SaveEvent) {
		assert.Equal(t, backend, ev.Post)
		assert.Equal(t, direct.Log(), ev.Log)
	}}
	res, err := RunFile(context.Background(), filepath.Join(replayDir, "Prog."+ScriptExt), RunOptions{Env: env})
	require.NoError(t, err)
	require.Len(t, res.Posts, 1)
	replayedLines = res.Posts[0].Lines()
	assert.Empty(t, replayedLines, "replayed backend saved its buffer")

	want, err := os.ReadFile(filepath.Join(directDir, "Prog."+ext))
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(replayDir, "Prog."+ext))
	require.NoError(t, err)

	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Errorf("replayed program differs (-direct +replay):\n%s", diff)
	}
	assert.True(t, bytes.Equal(want, got))
	assert.NotEmpty(t, directLines)
}

func TestReplayByteIdentical(t *testing.T) {
	minimal := func(p post.Post, name string) {
		p.ProgStart(name)
		p.MoveJ(nil, []float64{1, 2, 3, 4, 5, 6}, nil)
		p.ProgFinish(name)
	}

	// Values just below a rounding boundary of the backend formats.
	boundary := func(p post.Post, name string) {
		p.ProgStart(name)
		p.MoveJ(nil, []float64{0.0000014999999999, 1.2345674999999, 2, 3, 4, 5}, nil)
		p.MoveL(testutil.Pose(0.0004999999999, 10.0014999999999, 0, 0, 0, 0), []float64{1, 2, 3, 4, 5, 6}, nil)
		p.Pause(1234.4999999999)
		p.WaitDigitalInput(post.Indexed(2), post.Boolean(true), 0.04999999999)
		p.ProgFinish(name)
	}
	gimbal := func(p post.Post, name string) {
		p.ProgStart(name)
		p.SetTool(geom.FromXYZRPW(1, 2, 3, 30, 90, 45), 1, "up")
		p.MoveL(testutil.Pose(100, 0, 50, 10, -90, 20), []float64{1, 2, 3, 4, 5, 6}, nil)
		p.MoveC(testutil.Pose(0, 0, 0, 0, 90, 0), nil, testutil.Pose(1, 1, 1, 45, -90, 45), nil, nil, nil)
		p.ProgFinish(name)
	}
	negativeZero := func(p post.Post, name string) {
		negZero := math.Copysign(0, -1)
		p.ProgStart(name)
		p.MoveJ(nil, []float64{negZero, -0.0000001, 0, 0, 0, negZero}, nil)
		p.MoveL(testutil.Pose(negZero, -0.0001, 0, negZero, 0, 0), nil, nil)
		p.Pause(negZero)
		p.ProgFinish(name)
	}

	tests := []struct {
		name    string
		real    string
		ext     string
		extra   map[string]any
		program func(post.Post, string)
	}{
		{"generic minimal", dialect.GenericName, "txt", nil, minimal},
		{"generic sample", dialect.GenericName, "txt", nil, testutil.SampleProgram},
		{"precise sample", dialect.PreciseName, "gpl", nil, testutil.SampleProgram},
		{"generic shift_jis", dialect.GenericName, "txt", map[string]any{dialect.OptEncoding: sink.ShiftJIS}, func(p post.Post, name string) {
			p.ProgStart(name)
			p.RunMessage("溶接開始", true)
			p.ProgFinish(name)
		}},
		{"generic extension option", dialect.GenericName, "prg", map[string]any{dialect.OptProgExt: "prg"}, minimal},
		{"generic rounding boundary", dialect.GenericName, "txt", nil, boundary},
		{"precise rounding boundary", dialect.PreciseName, "gpl", nil, boundary},
		{"generic gimbal lock", dialect.GenericName, "txt", nil, gimbal},
		{"precise gimbal lock", dialect.PreciseName, "gpl", nil, gimbal},
		{"generic negative zero", dialect.GenericName, "txt", nil, negativeZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replayMatchesDirect(t, tt.real, tt.ext, tt.extra, tt.program)
		})
	}
}

func TestRunHandWrittenScript(t *testing.T) {
	dir := t.TempDir()
	src := `
def main():
    robot = RobotPost("Generic", "Cell 1", 6)
    robot.ProgStart("Main")
    robot.SetFrame(Pose([[1, 0, 0, 100], [0, 1, 0, 0], [0, 0, 1, 0]]), 1, "base")
    robot.MoveJ(joints = [0, 0, 0, 0, 0, 0])
    robot.SetDigitalOutput(5, 1)
    robot.WaitDigitalInput("DI_READY", "ON")
    robot.RunCode("Open Gripper", True)
    robot.ProgFinish("Main")
    print(robot.log)
    robot.ProgSave(folder = FOLDER, progname = "Main")

main()
`
	src = "FOLDER = " + `"` + dir + `"` + "\n" + src

	var out bytes.Buffer
	_, err := Run(context.Background(), "hand.star", []byte(src), RunOptions{Stdout: &out})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "Main.txt"))
	require.NoError(t, err)
	assert.Equal(t, "PROC Main()\n"+
		"BASE_FRAME X100.000 Y0.000 Z0.000 R0.000 P0.000 W0.000\n"+
		"MOVJ A0.000000 B0.000000 C0.000000 D0.000000 E0.000000 F0.000000\n"+
		"OUT[5]=TRUE\n"+
		"WAIT FOR DI_READY==ON\n"+
		"Open_Gripper()\n"+
		"ENDPROC\n", string(data))
	assert.Equal(t, "\n", out.String())
}

func TestPoseBuiltin(t *testing.T) {
	var out bytes.Buffer
	src := `p = Pose([[1, 0, 0, 10], [0, 1, 0, 20], [0, 0, 1, 30], [0, 0, 0, 1]])
print(p.xyzrpw[0], p.xyzrpw[2], type(p))
`
	_, err := Run(context.Background(), "pose.star", []byte(src), RunOptions{Stdout: &out})
	require.NoError(t, err)
	assert.Equal(t, "10.0 30.0 Pose\n", out.String())
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", "def (:\n", "replay"},
		{"unknown post", `RobotPost("Nope", "r", 6)`, "unknown"},
		{"bad joints", `RobotPost("Generic", "r", 6).MoveJ(joints="abc")`, "MoveJ: joints"},
		{"bad io value", `RobotPost("Generic", "r", 6).SetDigitalOutput(1, None)`, "io_value"},
		{"missing progname", `RobotPost("Generic", "r", 6).ProgStart()`, "progname"},
		{"frame needs pose", `RobotPost("Generic", "r", 6).SetFrame(None, 1, "f")`, "pose is required"},
		{"bad pose shape", `Pose([[1, 2]])`, string("BAD_SHAPE")},
		{"unknown method", `RobotPost("Generic", "r", 6).Fly()`, "Fly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), "bad.star", []byte(tt.src), RunOptions{})
			require.Error(t, err)
			assert.True(t, IsScriptError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunSaveFailureIsPersistenceError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	src := `RobotPost("Generic", "r", 6).ProgSave(folder="` + filepath.Join(blocker, "sub") + `", progname="P")`
	_, err := Run(context.Background(), "save.star", []byte(src), RunOptions{})
	require.Error(t, err)
	assert.True(t, sink.IsPersistenceError(err))
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := `
def spin():
    while True:
        pass

spin()
`
	_, err := Run(ctx, "spin.star", []byte(src), RunOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancel")
}

func TestRunFileMissing(t *testing.T) {
	_, err := RunFile(context.Background(), filepath.Join(t.TempDir(), "none.star"), RunOptions{})
	assert.True(t, IsScriptError(err))
}
