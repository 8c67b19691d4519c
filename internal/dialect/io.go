package dialect

import (
	"fmt"

	"github.com/roach88/robopost/internal/post"
)

// ioAssign renders "OUT[n]=TRUE" style output assignments.
func ioAssign(ref post.Ref, value post.IoValue) string {
	return fmt.Sprintf("%s=%s", ref.Render("OUT[%d]"), value.Render("TRUE", "FALSE"))
}

// ioWait renders "WAIT FOR IN[n]==TRUE" with an optional timeout in ms.
func ioWait(ref post.Ref, value post.IoValue, timeoutMs float64) string {
	line := fmt.Sprintf("WAIT FOR %s==%s", ref.Render("IN[%d]"), value.Render("TRUE", "FALSE"))
	if timeoutMs < 0 {
		return line
	}
	return fmt.Sprintf("%s TIMEOUT=%.1f", line, timeoutMs)
}
