package geom

import (
	"math"
)

// gimbalEpsilon is the cos(pitch) magnitude below which decomposition
// applies the roll = 0 tie-break.
const gimbalEpsilon = 1e-9

// Pose is a rigid 3-D transform stored row-major as a 4x4 matrix.
type Pose [4][4]float64

// Identity returns the identity transform.
func Identity() Pose {
	return Pose{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// FromXYZRPW builds a pose from a position in mm and roll/pitch/yaw in degrees.
// The rotation block is Rz(w)·Ry(p)·Rx(r).
func FromXYZRPW(x, y, z, r, p, w float64) Pose {
	sr, cr := math.Sincos(r * math.Pi / 180)
	sp, cp := math.Sincos(p * math.Pi / 180)
	sw, cw := math.Sincos(w * math.Pi / 180)

	return Pose{
		{cw * cp, cw*sp*sr - sw*cr, cw*sp*cr + sw*sr, x},
		{sw * cp, sw*sp*sr + cw*cr, sw*sp*cr - cw*sr, y},
		{-sp, cp * sr, cp * cr, z},
		{0, 0, 0, 1},
	}
}

// XYZRPW decomposes the pose into position and roll/pitch/yaw in degrees.
//
// At the gimbal-lock singularity (|cos(pitch)| < 1e-9) roll is fixed to 0.
func (p Pose) XYZRPW() [6]float64 {
	x, y, z := p[0][3], p[1][3], p[2][3]

	cp := math.Hypot(p[0][0], p[1][0])
	pitch := math.Atan2(-p[2][0], cp)

	var roll, yaw float64
	if cp < gimbalEpsilon {
		roll = 0
		yaw = math.Atan2(-p[0][1], p[1][1])
	} else {
		roll = math.Atan2(p[2][1], p[2][2])
		yaw = math.Atan2(p[1][0], p[0][0])
	}

	return [6]float64{
		x, y, z,
		roll * 180 / math.Pi,
		pitch * 180 / math.Pi,
		yaw * 180 / math.Pi,
	}
}

// Position returns the translation part of the pose.
func (p Pose) Position() [3]float64 {
	return [3]float64{p[0][3], p[1][3], p[2][3]}
}

// Mul returns p·q.
func (p Pose) Mul(q Pose) Pose {
	var out Pose
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += p[i][k] * q[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// Inverse returns the inverse of a rigid transform: the transposed rotation
// and the rotated, negated translation.
func (p Pose) Inverse() Pose {
	var out Pose
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = p[j][i]
		}
	}
	for i := 0; i < 3; i++ {
		out[i][3] = -(out[i][0]*p[0][3] + out[i][1]*p[1][3] + out[i][2]*p[2][3])
	}
	out[3] = [4]float64{0, 0, 0, 1}
	return out
}

// IsFinite reports whether every element is neither NaN nor infinite.
func (p Pose) IsFinite() bool {
	for i := range p {
		for _, v := range p[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// Rows returns the matrix as nested slices, row-major.
func (p Pose) Rows() [][]float64 {
	rows := make([][]float64, 4)
	for i := range p {
		rows[i] = []float64{p[i][0], p[i][1], p[i][2], p[i][3]}
	}
	return rows
}

// PoseFromRows builds a pose from a 4x4 (or 3x4, bottom row implied) matrix.
func PoseFromRows(rows [][]float64) (Pose, error) {
	if len(rows) != 4 && len(rows) != 3 {
		return Pose{}, &FormatError{Code: ErrCodeShape, Message: "pose needs 3 or 4 rows"}
	}
	out := Identity()
	for i, row := range rows {
		if len(row) != 4 {
			return Pose{}, &FormatError{Code: ErrCodeShape, Message: "pose rows need 4 columns", Index: i}
		}
		copy(out[i][:], row)
	}
	return out, nil
}
