package schema

import "errors"

var (
	// ErrSchema reports a structurally invalid definition: an unknown type
	// identifier, a non-object root, an order list that disagrees with the
	// properties, or a missing items definition.
	ErrSchema = errors.New("schema error")

	// ErrFieldAccess reports a field that cannot be read from or stored into
	// the caller's object.
	ErrFieldAccess = errors.New("field access")

	ErrUnknownSchema = errors.New("unknown schema")
	ErrSchemaExists  = errors.New("schema already registered")
)
