// Package patch applies RFC6902 JSON Patch operations to typed values,
// restricted to an allow-list of JSON pointers.
package patch

const (
	OperationAdd     = "add"
	OperationReplace = "replace"
	OperationRemove  = "remove"
)

type Operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// Replace builds a replace operation. Apply downgrades it to add when the
// path does not exist yet.
func Replace(path string, value any) Operation {
	return Operation{Op: OperationReplace, Path: path, Value: value}
}

// AllowedPaths is a set of JSON pointers. A "*" or "-" segment matches any
// single segment at that position.
type AllowedPaths map[string]bool

func NewAllowedPaths(paths ...string) AllowedPaths {
	allowed := make(AllowedPaths, len(paths))
	for _, p := range paths {
		allowed[p] = true
	}
	return allowed
}
