// Package replay records instruction calls as a standalone Starlark script
// and runs such scripts against a real dialect.
//
// A Recorder stands in for a dialect: every instruction is captured as one
// call statement, and ProgSave writes a script that builds the configured
// backend and repeats the calls in order. Run executes the script; the
// files it produces are byte-identical to those the backend would have
// written had it received the calls directly.
//
// Script shape:
//
//	def run_post():
//	    robot = RobotPost("Generic", "UR5", 6)
//	    robot.ProgStart(progname="Main")
//	    robot.MoveJ(pose=None, joints=[0.0, 0.0, 0.0, 0.0, 0.0, 0.0], conf=None)
//	    robot.ProgFinish(progname="Main")
//	    robot.ProgSave(folder="out", progname="Main")
//
//	run_post()
package replay
