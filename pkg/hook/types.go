// Package hook runs user-supplied Tengo policy scripts around dlx
// operations. A script can veto a download or spawn by assigning a non-empty
// string (or error) to the `err` variable.
package hook

// Type represents the kind of hook.
type Type string

// Supported hook types.
const (
	PreDownload Type = "pre-download"
	PreSpawn    Type = "pre-spawn"
)

// Hook represents a hook script with its type and content.
type Hook struct {
	Type    Type
	Content string
}

// Context contains information passed to hook scripts.
type Context struct {
	Spec       string
	Name       string
	URL        string
	BinaryPath string
	CacheKey   string
	Vars       map[string]interface{}
}

// Manager defines the interface for managing hooks.
type Manager interface {
	// Execute runs the specified hook type with the given context.
	Execute(hookType Type, ctx Context) error

	// AddHook adds a new hook.
	AddHook(hook Hook) error

	// RemoveHook removes a hook of the specified type.
	RemoveHook(hookType Type) error

	// HasHook checks if a hook of the specified type exists.
	HasHook(hookType Type) bool
}
