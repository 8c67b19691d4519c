// Package post defines the instruction contract every robot dialect implements.
//
// A host orchestrator drives a Post by calling one method per instruction, in
// program order: ProgStart, a sequence of moves and settings, ProgFinish, and
// finally ProgSave. Dialects are independent implementations registered by
// name and constructed from a Config through New.
//
// # Failure Policy
//
// Instruction methods never return errors. When a dialect cannot express an
// instruction, or its input cannot be rendered, the call degrades to an
// entry in the diagnostic log (Post.Log) so that a complete program is still
// produced for the operator to review. Only ProgSave (persistence) and
// ProgSendRobot (transfer) return errors.
//
// # Parameter Names
//
// Every instruction kind has a fixed, ordered list of parameter names
// (Params). The replay recorder writes them as keyword arguments and the
// replay runtime reads them back, so both sides agree by construction.
package post
