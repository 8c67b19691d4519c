package testutil

import (
	"github.com/roach88/robopost/internal/geom"
	"github.com/roach88/robopost/internal/post"
)

// Pose is shorthand for a pose pointer built from XYZ + roll/pitch/yaw degrees.
func Pose(x, y, z, r, p, w float64) *geom.Pose {
	pose := geom.FromXYZRPW(x, y, z, r, p, w)
	return &pose
}

// SampleProgram drives a pick-and-place program through p, touching every
// instruction kind except ProgSave. Callers save it themselves.
func SampleProgram(p post.Post, name string) {
	p.ProgStart(name)
	p.RunMessage("Program generated by robopost", true)
	p.SetFrame(geom.FromXYZRPW(807.766544, -963.699898, 41.478944, 0, 0, 0), 1, "Frame 1")
	p.SetTool(geom.FromXYZRPW(62.5, -108.253175, 100, -60, 90, 0), 1, "Gripper")
	p.SetSpeed(250)
	p.SetAcceleration(50)
	p.SetSpeedJoints(90)
	p.SetAccelerationJoints(180)
	p.SetZoneData(1)
	p.MoveJ(Pose(200, 200, 500, 180, 0, 180), []float64{-46.18419, -6.77518, -20.54925, 71.38674, 49.58727, -302.54752}, []int{0, 0, 0})
	p.MoveL(Pose(200, 250, 348.734575, 180, 0, -150), []float64{-41.62707, -8.89064, -30.01809, 60.62329, 49.66749, -258.98418}, nil)
	p.MoveL(Pose(200, 200, 262.132034, 180, 0, -150), []float64{-43.73892, -3.91728, -35.77935, 58.57566, 54.11615, -253.81122}, nil)
	p.RunMessage("Setting air valve 1 on", false)
	p.RunCode("TCP_On", true)
	p.SetDigitalOutput(post.Indexed(3), post.Boolean(true))
	p.WaitDigitalInput(post.Named("PART_READY"), post.Literal("ON"), 2000)
	p.Pause(1000)
	p.MoveC(Pose(250, 300, 278.023897, 180, 0, -150), []float64{-37.52588, -6.32628, -34.59693, 53.52525, 49.24426, -251.44677},
		Pose(250, 250, 191.421356, 180, 0, -150), []float64{-39.75778, -1.04537, -40.37883, 52.09118, 54.15317, -246.94403}, nil, nil)
	p.RunMessage("Setting air valve off", false)
	p.RunCode("TCP_Off", true)
	p.SetDigitalOutput(post.Indexed(3), post.Boolean(false))
	p.WaitDigitalInput(post.Indexed(1), post.Boolean(false), -1)
	p.Pause(-1)
	p.RunCode("; raw controller line", false)
	p.MoveJ(nil, []float64{-46.18419, -6.77518, -20.54925, 71.38674, 49.58727, -302.54752}, nil)
	p.ProgFinish(name)
}
