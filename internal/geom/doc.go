// Package geom converts robot targets into controller text.
//
// A Pose is a 4x4 homogeneous transform. Orientation is decomposed with the
// fixed-axis XYZ convention: the rotation block equals Rz(yaw)·Ry(pitch)·Rx(roll),
// which is the same as rotating about the moving Z, then Y, then X axes.
//
// # Gimbal Lock
//
// When pitch is ±90° roll and yaw are not independent. Decomposition then
// fixes roll to 0 and lets yaw carry the whole rotation about Z, so the
// angles are deterministic and re-encoding them rebuilds the same matrix.
//
// All numeric fields are written fixed-point; scientific notation never
// appears in controller text.
package geom
