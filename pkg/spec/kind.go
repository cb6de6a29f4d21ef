// Package spec defines ComponentSpec, a named and typed slot in a plugin model.
package spec

// Kind enumerates the contribution kinds a spec can describe. The set is
// closed: each kind has exactly one Rules type and one value type.
type Kind string

const (
	KindMetadata     Kind = "metadata"
	KindCommand      Kind = "command"
	KindAPIExtension Kind = "api_extension"
	KindHook         Kind = "hook"
	KindAsset        Kind = "asset"
)

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindMetadata, KindCommand, KindAPIExtension, KindHook, KindAsset}
}

func (k Kind) String() string { return string(k) }

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindMetadata, KindCommand, KindAPIExtension, KindHook, KindAsset:
		return true
	}
	return false
}
