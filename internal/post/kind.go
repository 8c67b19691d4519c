package post

// Kind identifies an instruction.
type Kind string

// Instruction kinds. The string value is the method name used in replay scripts.
const (
	KindProgStart             Kind = "ProgStart"
	KindProgFinish            Kind = "ProgFinish"
	KindProgSave              Kind = "ProgSave"
	KindMoveJ                 Kind = "MoveJ"
	KindMoveL                 Kind = "MoveL"
	KindMoveC                 Kind = "MoveC"
	KindSetFrame              Kind = "SetFrame"
	KindSetTool               Kind = "SetTool"
	KindPause                 Kind = "Pause"
	KindSetSpeed              Kind = "SetSpeed"
	KindSetAcceleration       Kind = "SetAcceleration"
	KindSetSpeedJoints        Kind = "SetSpeedJoints"
	KindSetAccelerationJoints Kind = "SetAccelerationJoints"
	KindSetZoneData           Kind = "SetZoneData"
	KindSetDigitalOutput      Kind = "SetDigitalOutput"
	KindWaitDigitalInput      Kind = "WaitDigitalInput"
	KindRunCode               Kind = "RunCode"
	KindRunMessage            Kind = "RunMessage"
)

// Kinds lists every instruction kind in contract order.
var Kinds = []Kind{
	KindProgStart, KindProgFinish, KindProgSave,
	KindMoveJ, KindMoveL, KindMoveC,
	KindSetFrame, KindSetTool,
	KindPause,
	KindSetSpeed, KindSetAcceleration, KindSetSpeedJoints, KindSetAccelerationJoints, KindSetZoneData,
	KindSetDigitalOutput, KindWaitDigitalInput,
	KindRunCode, KindRunMessage,
}

var params = map[Kind][]string{
	KindProgStart:             {"progname"},
	KindProgFinish:            {"progname"},
	KindProgSave:              {"folder", "progname", "ask_user", "show_result"},
	KindMoveJ:                 {"pose", "joints", "conf"},
	KindMoveL:                 {"pose", "joints", "conf"},
	KindMoveC:                 {"pose1", "joints1", "pose2", "joints2", "conf1", "conf2"},
	KindSetFrame:              {"pose", "frame_id", "frame_name"},
	KindSetTool:               {"pose", "tool_id", "tool_name"},
	KindPause:                 {"time_ms"},
	KindSetSpeed:              {"speed_mms"},
	KindSetAcceleration:       {"accel_mmss"},
	KindSetSpeedJoints:        {"speed_degs"},
	KindSetAccelerationJoints: {"accel_degss"},
	KindSetZoneData:           {"zone_mm"},
	KindSetDigitalOutput:      {"io_var", "io_value"},
	KindWaitDigitalInput:      {"io_var", "io_value", "timeout_ms"},
	KindRunCode:               {"code", "is_function_call"},
	KindRunMessage:            {"message", "is_comment"},
}

// Params returns the ordered parameter names of an instruction kind.
// Returns nil for an unknown kind.
func Params(k Kind) []string {
	p, ok := params[k]
	if !ok {
		return nil
	}
	out := make([]string, len(p))
	copy(out, p)
	return out
}

// Valid reports whether k is a known instruction kind.
func (k Kind) Valid() bool {
	_, ok := params[k]
	return ok
}
