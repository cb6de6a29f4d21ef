package spec

// Command is a contribution to the host's command surface. An empty Group
// places the command at the top level.
type Command struct {
	Name        string `json:"name" mapstructure:"name"`
	Group       string `json:"group,omitempty" mapstructure:"group"`
	Description string `json:"description,omitempty" mapstructure:"description"`
	Run         any    `json:"-" mapstructure:"-"` // opaque to validation, never called
}

// APIExtension is a callable the plugin exposes to the host. Signature, when
// set, takes precedence over the one derived from Func.
type APIExtension struct {
	Name        string     `json:"name" mapstructure:"name"`
	Description string     `json:"description,omitempty" mapstructure:"description"`
	Func        any        `json:"-" mapstructure:"-"`
	Signature   *Signature `json:"signature,omitempty" mapstructure:"signature"`
}

// Hook is a callable the host triggers on a lifecycle event.
type Hook struct {
	Name        string     `json:"name" mapstructure:"name"`
	Event       string     `json:"event,omitempty" mapstructure:"event"`
	Description string     `json:"description,omitempty" mapstructure:"description"`
	Func        any        `json:"-" mapstructure:"-"`
	Signature   *Signature `json:"signature,omitempty" mapstructure:"signature"`
}

// Asset is a static resource shipped by the plugin. Path is relative to
// Package and is never opened here.
type Asset struct {
	Name        string `json:"name,omitempty" mapstructure:"name"`
	Package     string `json:"package,omitempty" mapstructure:"package"`
	Path        string `json:"path" mapstructure:"path"`
	Description string `json:"description,omitempty" mapstructure:"description"`
}

// valueOf accepts both T and a non-nil *T.
func valueOf[T any](v any) (T, bool) {
	switch x := v.(type) {
	case T:
		return x, true
	case *T:
		if x != nil {
			return *x, true
		}
	}
	var zero T
	return zero, false
}
