package spec

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rendis/khimera/pkg/constraint"
	"github.com/rendis/khimera/pkg/schema"
)

// Rules is the kind-specific payload of a spec. The interface is sealed;
// the implementations below are the only ones.
type Rules interface {
	Kind() Kind
	// normalize validates the rules and returns an owned, normalised copy.
	normalize() (Rules, error)
	// typeConstraint checks that a value is of the kind's value type.
	typeConstraint() constraint.Constraint
	// kindConstraints run only on values that passed typeConstraint.
	kindConstraints() []constraint.Constraint
}

// MetadataRules accepts any value. Shape checks belong in user constraints.
type MetadataRules struct{}

func (MetadataRules) Kind() Kind { return KindMetadata }

func (r MetadataRules) normalize() (Rules, error) { return r, nil }

func (MetadataRules) typeConstraint() constraint.Constraint { return nil }

func (MetadataRules) kindConstraints() []constraint.Constraint { return nil }

// CommandRules places commands in the host command surface. Groups lists the
// predefined groups. The zero value allows any group and top-level commands.
type CommandRules struct {
	Groups        []string
	DenyNewGroups bool // only groups listed in Groups are accepted
	DenyTopLevel  bool // every command must name a group
}

func (CommandRules) Kind() Kind { return KindCommand }

func (r CommandRules) normalize() (Rules, error) {
	if err := checkNames("group", r.Groups, false); err != nil {
		return nil, err
	}
	if r.DenyTopLevel && r.DenyNewGroups && len(r.Groups) == 0 {
		return nil, schema.NewError(schema.ErrCodeInvalidSpecDefinition,
			"command rules leave no place for a command: top-level and new groups denied with no predefined groups")
	}
	r.Groups = cloneNames(r.Groups)
	return r, nil
}

func (CommandRules) typeConstraint() constraint.Constraint {
	return typeRule[Command]("is a command")
}

func (r CommandRules) kindConstraints() []constraint.Constraint {
	var cs []constraint.Constraint
	if r.DenyTopLevel {
		cs = append(cs, onValue("has a group", func(c Command) bool {
			return c.Group != ""
		}))
	}
	if r.DenyNewGroups {
		groups := r.Groups
		cs = append(cs, onValue(fmt.Sprintf("group is one of [%s]", strings.Join(groups, ", ")), func(c Command) bool {
			return c.Group == "" || slices.Contains(groups, c.Group)
		}))
	}
	return cs
}

// APIRules constrains the call shape of API extensions. A nil Signature
// accepts any callable.
type APIRules struct {
	Signature *SignatureRule
}

func (APIRules) Kind() Kind { return KindAPIExtension }

func (r APIRules) normalize() (Rules, error) {
	if err := r.Signature.check(); err != nil {
		return nil, err
	}
	r.Signature = r.Signature.clone()
	return r, nil
}

func (APIRules) typeConstraint() constraint.Constraint {
	return typeRule[APIExtension]("is an API extension")
}

func (r APIRules) kindConstraints() []constraint.Constraint {
	resolve := func(a APIExtension) (Signature, bool) { return resolveSignature(a.Signature, a.Func) }
	return signatureConstraints(r.Signature, resolve)
}

// HookRules constrains hooks. A nil Events accepts any event; a declared one
// must be non-empty.
type HookRules struct {
	Events    []string
	Signature *SignatureRule
}

func (HookRules) Kind() Kind { return KindHook }

func (r HookRules) normalize() (Rules, error) {
	if err := checkNames("event", r.Events, true); err != nil {
		return nil, err
	}
	if err := r.Signature.check(); err != nil {
		return nil, err
	}
	r.Events = cloneNames(r.Events)
	r.Signature = r.Signature.clone()
	return r, nil
}

func (HookRules) typeConstraint() constraint.Constraint {
	return typeRule[Hook]("is a hook")
}

func (r HookRules) kindConstraints() []constraint.Constraint {
	var cs []constraint.Constraint
	if r.Events != nil {
		events := r.Events
		cs = append(cs, onValue(fmt.Sprintf("event is one of [%s]", strings.Join(events, ", ")), func(h Hook) bool {
			return slices.Contains(events, h.Event)
		}))
	}
	resolve := func(h Hook) (Signature, bool) { return resolveSignature(h.Signature, h.Func) }
	return append(cs, signatureConstraints(r.Signature, resolve)...)
}

// AssetRules constrains asset paths by extension. Extensions are matched as
// case-insensitive suffixes, so multi-part extensions such as ".tar.gz" work.
type AssetRules struct {
	Extensions []string
}

func (AssetRules) Kind() Kind { return KindAsset }

func (r AssetRules) normalize() (Rules, error) {
	if r.Extensions == nil {
		return r, nil
	}
	if len(r.Extensions) == 0 {
		return nil, schema.NewError(schema.ErrCodeInvalidSpecDefinition,
			"asset extensions declared but empty")
	}
	exts := make([]string, 0, len(r.Extensions))
	for _, e := range r.Extensions {
		ext := strings.ToLower(strings.TrimSpace(e))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		switch {
		case ext == "" || ext == ".":
			return nil, schema.NewError(schema.ErrCodeInvalidSpecDefinition, "asset extension is empty")
		case strings.ContainsAny(ext, `/\`):
			return nil, schema.NewErrorf(schema.ErrCodeInvalidSpecDefinition,
				"asset extension %q contains a path separator", e)
		case slices.Contains(exts, ext):
			return nil, schema.NewErrorf(schema.ErrCodeInvalidSpecDefinition,
				"asset extension %q is declared twice", ext)
		}
		exts = append(exts, ext)
	}
	r.Extensions = exts
	return r, nil
}

func (AssetRules) typeConstraint() constraint.Constraint {
	return typeRule[Asset]("is an asset")
}

func (r AssetRules) kindConstraints() []constraint.Constraint {
	if r.Extensions == nil {
		return nil
	}
	exts := r.Extensions
	return []constraint.Constraint{
		onValue(fmt.Sprintf("path has extension one of [%s]", strings.Join(exts, ", ")), func(a Asset) bool {
			p := strings.ToLower(a.Path)
			return slices.ContainsFunc(exts, func(ext string) bool {
				return strings.HasSuffix(p, ext) && len(p) > len(ext)
			})
		}),
	}
}

func typeRule[T any](desc string) constraint.Constraint {
	return constraint.Predicate(desc, func(v any) bool {
		_, ok := valueOf[T](v)
		return ok
	})
}

func onValue[T any](desc string, fn func(T) bool) constraint.Constraint {
	return constraint.Predicate(desc, func(v any) bool {
		t, ok := valueOf[T](v)
		return ok && fn(t)
	})
}

func resolveSignature(declared *Signature, fn any) (Signature, bool) {
	if declared != nil {
		return *declared, true
	}
	return SignatureOf(fn)
}

func signatureConstraints[T any](rule *SignatureRule, resolve func(T) (Signature, bool)) []constraint.Constraint {
	cs := []constraint.Constraint{
		onValue("has a callable signature", func(t T) bool {
			_, ok := resolve(t)
			return ok
		}),
	}
	if rule != nil {
		cs = append(cs, onValue("signature matches "+rule.String(), func(t T) bool {
			// An unresolvable signature is reported by the constraint above.
			sig, ok := resolve(t)
			return !ok || rule.Match(sig)
		}))
	}
	return cs
}

// checkNames rejects empty and duplicate names. With declaredNonEmpty a
// non-nil empty slice is also rejected.
func checkNames(what string, names []string, declaredNonEmpty bool) error {
	if declaredNonEmpty && names != nil && len(names) == 0 {
		return schema.NewErrorf(schema.ErrCodeInvalidSpecDefinition, "%ss declared but empty", what)
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			return schema.NewErrorf(schema.ErrCodeInvalidSpecDefinition, "%s name is empty", what)
		}
		if _, dup := seen[n]; dup {
			return schema.NewErrorf(schema.ErrCodeInvalidSpecDefinition, "%s %q is declared twice", what, n)
		}
		seen[n] = struct{}{}
	}
	return nil
}
