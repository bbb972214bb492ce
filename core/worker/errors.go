package worker

import "errors"

// ErrNoProcedures is returned when a runtime is built without any
// registered procedure.
var ErrNoProcedures = errors.New("no procedures registered")
