// Package harness drives instruction programs written in YAML into a post.
//
// Instruction programs let a cell's motion sequence be kept as data, run
// against any registered dialect, and checked with assertions and golden
// files.
//
// # Program Format
//
//	name: pick_and_place
//	description: "Pick a part and place it on the fixture"
//	robot:
//	  robot_post: Generic
//	  robot_name: UR5
//	steps:
//	  - ProgStart: {progname: Main}
//	  - SetFrame: {pose: [0, 0, 0, 0, 0, 0], frame_id: 1, frame_name: Base}
//	  - MoveJ: {joints: [0, -90, 90, 0, 90, 0]}
//	  - MoveL: {pose: {xyzrpw: [200, 0, 300, 180, 0, 180]}}
//	  - SetDigitalOutput: {io_var: 3, io_value: true}
//	  - ProgFinish: {progname: Main}
//	  - ProgSave: {progname: Main}
//	assertions:
//	  - type: line_contains
//	    text: "OUT[3]=TRUE"
//	  - type: line_order
//	    texts: ["PROC Main()", "ENDPROC"]
//
// Each step is a single-key mapping from instruction kind to arguments,
// using the same argument names as replay scripts. Poses are written as
// six numbers (x, y, z in mm, roll, pitch, yaw in degrees), as
// {xyzrpw: [...]}, or as {rows: [[...], ...]}.
//
// # Assertion Types
//
//   - line_contains: some emitted line contains text
//   - line_order: texts appear in emitted lines in the given order
//   - line_count: exactly count lines were emitted
//   - log_contains: the diagnostic log contains text
//   - log_empty: nothing was logged
//
// Unknown fields, kinds and argument names are rejected when loading.
//
// # Usage
//
//	prog, err := harness.LoadProgram("testdata/programs/pick.yaml")
//	if err != nil {
//	    return err
//	}
//	p, err := post.New(cfg, post.Env{})
//	if err != nil {
//	    return err
//	}
//	result, err := harness.Run(prog, p, harness.Options{OutDir: "out"})
package harness
