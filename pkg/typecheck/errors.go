package typecheck

import "fmt"

// TypeError is the checker's single diagnostic kind. Exactly one is ever
// returned from a successful Check traversal: the first one encountered
// during the fixed traversal order (structs, then functions, each depth
// first). It is distinguished from document.DecodeError so a driver can
// tell "ill-typed program" apart from "malformed input".
type TypeError struct {
	Msg string
}

func (e *TypeError) Error() string { return e.Msg }

func typeErrorf(format string, args ...any) error {
	return &TypeError{Msg: fmt.Sprintf(format, args...)}
}
