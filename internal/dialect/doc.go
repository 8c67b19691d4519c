// Package dialect holds the concrete robot post-processors.
//
// Each dialect registers itself with the post registry from init, so a
// blank import of this package makes every dialect available to post.New:
//
//	import _ "github.com/roach88/robopost/internal/dialect"
//
// Dialect options read from post.Config.Extra:
//
//	encoding  text encoding of the saved file (WHATWG label, default utf-8)
//	prog_ext  file extension override
package dialect

// Option keys understood by every dialect.
const (
	OptEncoding = "encoding"
	OptProgExt  = "prog_ext"
)
