// Package sink persists finished programs and hands them to external tools.
//
// Persist writes a buffer to <folder>/<name>.<ext>, creating the folder when
// needed and encoding the text for the target controller (some Japanese
// controllers only accept Shift_JIS). Reveal opens the result in a viewer
// without waiting for it. Upload is the call boundary of the transfer
// capability; the protocol behind it lives outside this module.
//
// Nothing here retries. Callers that want retry wrap the boundary.
package sink
