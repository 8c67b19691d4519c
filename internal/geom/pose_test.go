package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPoseNear(t *testing.T, expected, actual Pose, tol float64) {
	t.Helper()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDelta(t, expected[i][j], actual[i][j], tol, "element [%d][%d]", i, j)
		}
	}
}

func TestFromXYZRPWIdentity(t *testing.T) {
	assertPoseNear(t, Identity(), FromXYZRPW(0, 0, 0, 0, 0, 0), 1e-12)
}

func TestFromXYZRPWSingleAxis(t *testing.T) {
	// 90° about Z maps X onto Y.
	p := FromXYZRPW(0, 0, 0, 0, 0, 90)
	assert.InDelta(t, 0, p[0][0], 1e-12)
	assert.InDelta(t, 1, p[1][0], 1e-12)

	// 90° about X maps Y onto Z.
	p = FromXYZRPW(0, 0, 0, 90, 0, 0)
	assert.InDelta(t, 1, p[2][1], 1e-12)
}

func TestXYZRPWRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   [6]float64
	}{
		{"zero", [6]float64{0, 0, 0, 0, 0, 0}},
		{"position only", [6]float64{200, -150.5, 348.734575, 0, 0, 0}},
		{"flipped tool", [6]float64{200, 200, 500, 180, 0, 180}},
		{"typical", [6]float64{200, 250, 348.734575, 180, 0, -150}},
		{"all axes", [6]float64{1, 2, 3, 10, 20, 30}},
		{"negative", [6]float64{-5, -6, -7, -45, -60, -120}},
		{"near lock", [6]float64{0, 0, 0, 15, 89.9, 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromXYZRPW(tt.in[0], tt.in[1], tt.in[2], tt.in[3], tt.in[4], tt.in[5])
			got := p.XYZRPW()
			back := FromXYZRPW(got[0], got[1], got[2], got[3], got[4], got[5])
			assertPoseNear(t, p, back, 1e-9)
		})
	}
}

func TestXYZRPWGimbalLockTieBreak(t *testing.T) {
	for _, pitch := range []float64{90, -90} {
		p := FromXYZRPW(10, 20, 30, 35, pitch, 10)
		got := p.XYZRPW()

		assert.Equal(t, 0.0, got[3], "roll is fixed to zero at the singularity")
		assert.InDelta(t, pitch, got[4], 1e-6)

		back := FromXYZRPW(got[0], got[1], got[2], got[3], got[4], got[5])
		assertPoseNear(t, p, back, 1e-9)
	}
}

func TestInverse(t *testing.T) {
	p := FromXYZRPW(807.766544, -963.699898, 41.478944, 10, -20, 30)
	assertPoseNear(t, Identity(), p.Mul(p.Inverse()), 1e-9)
	assertPoseNear(t, Identity(), p.Inverse().Mul(p), 1e-9)
}

func TestMulTranslation(t *testing.T) {
	a := FromXYZRPW(1, 2, 3, 0, 0, 0)
	b := FromXYZRPW(10, 20, 30, 0, 0, 0)
	assert.Equal(t, [3]float64{11, 22, 33}, a.Mul(b).Position())
}

func TestIsFinite(t *testing.T) {
	p := Identity()
	assert.True(t, p.IsFinite())

	p[1][2] = math.NaN()
	assert.False(t, p.IsFinite())

	p = Identity()
	p[0][3] = math.Inf(-1)
	assert.False(t, p.IsFinite())
}

func TestPoseFromRows(t *testing.T) {
	p := FromXYZRPW(1, 2, 3, 4, 5, 6)

	got, err := PoseFromRows(p.Rows())
	require.NoError(t, err)
	assert.Equal(t, p, got)

	got, err = PoseFromRows(p.Rows()[:3])
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = PoseFromRows([][]float64{{1, 2}})
	require.Error(t, err)
	assert.True(t, IsFormatError(err))

	_, err = PoseFromRows(nil)
	assert.True(t, IsFormatError(err))
}
