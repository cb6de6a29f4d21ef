package spec

import (
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rendis/khimera/pkg/schema"
)

// Decode converts a loosely typed descriptor value, as produced by a YAML or
// JSON decoder, into the value type of kind. Metadata values and values that
// already have the target type are returned unchanged. A plain string is
// shorthand for a command name or an asset path.
func Decode(kind Kind, raw any) (any, error) {
	switch kind {
	case KindMetadata:
		return raw, nil
	case KindCommand:
		return decodeAs[Command](kind, raw)
	case KindAPIExtension:
		return decodeAs[APIExtension](kind, raw)
	case KindHook:
		return decodeAs[Hook](kind, raw)
	case KindAsset:
		return decodeAs[Asset](kind, raw)
	default:
		return nil, schema.NewErrorf(schema.ErrCodeInvalidDescriptor, "unknown kind %q", kind)
	}
}

func decodeAs[T any](kind Kind, raw any) (any, error) {
	if _, ok := valueOf[T](raw); ok {
		return raw, nil
	}
	if raw == nil {
		return nil, schema.NewErrorf(schema.ErrCodeInvalidDescriptor, "%s value is null", kind)
	}

	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  shorthandHook,
		ErrorUnused: true,
		Result:      &out,
	})
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeInvalidDescriptor, "build decoder").WithCause(err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeInvalidDescriptor,
			"decode %s value: %s", kind, err.Error()).WithCause(err)
	}
	return out, nil
}

var (
	commandType = reflect.TypeFor[Command]()
	assetType   = reflect.TypeFor[Asset]()
)

// shorthandHook expands a string into the map form of a command or asset.
func shorthandHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	switch to {
	case commandType:
		return map[string]any{"name": data}, nil
	case assetType:
		return map[string]any{"path": data}, nil
	}
	return data, nil
}
