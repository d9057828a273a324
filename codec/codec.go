// Package codec encodes an ordered list of typed scalar values into the
// custom identifier of a UI component and decodes it back. Values are joined
// with a private-use-area separator; non-string scalars carry a private-use
// tag rune so decode can recover the type. The scalar set is extensible two
// ways: an explicit type registry (RegisterType) and sequential encode/decode
// hook events for application-defined fallbacks.
package codec

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/tescord/tescord/emitter"
	"github.com/tescord/tescord/errors"
)

// Private-use-area runes reserved by the encoding.
const (
	// Separator joins the id and each encoded value.
	Separator = ''
	// NumberTag prefixes the string form of a number.
	NumberTag = ''
)

// Hook event names emitted (sequentially, shared mutable payload) for values
// no registered type claims.
const (
	HookEncode = "codec:encode"
	HookDecode = "codec:decode"
)

// EncodeFunc converts a scalar to its wire form. The boolean reports whether
// this type claims the value.
type EncodeFunc func(value any) (string, bool)

// DecodeFunc converts a wire form (tag stripped) back to a scalar.
type DecodeFunc func(encoded string) (any, bool)

// Type is one scalar type the codec understands. Tag must be unique within a
// registry; pick private-use-area runes to keep ids unambiguous.
type Type struct {
	Name   string
	Tag    rune
	Encode EncodeFunc
	Decode DecodeFunc
}

// EncodePayload is the mutable payload of the HookEncode event. A hook
// listener that recognizes Value sets Encoded (including any tag rune) and
// Handled.
type EncodePayload struct {
	Value   any
	Encoded string
	Handled bool
}

// DecodePayload is the mutable payload of the HookDecode event. A hook
// listener that recognizes Encoded sets Value and Handled.
type DecodePayload struct {
	Encoded string
	Value   any
	Handled bool
}

// Registry is the explicit capability map of scalar types an application
// constructs once at startup. Strings are the untagged base case; numbers are
// built in with NumberTag and canonicalize to float64 on decode.
type Registry struct {
	mu    sync.RWMutex
	types []Type
	tags  map[rune]bool
	hooks *emitter.Emitter
}

// NewRegistry creates a registry with the built-in string and number types.
func NewRegistry() *Registry {
	r := &Registry{
		tags:  make(map[rune]bool),
		hooks: emitter.New(),
	}

	// Registration of the builtin cannot fail: the registry is empty.
	_ = r.RegisterType(Type{
		Name: "number",
		Tag:  NumberTag,
		Encode: func(value any) (string, bool) {
			switch v := value.(type) {
			case int:
				return strconv.FormatInt(int64(v), 10), true
			case int32:
				return strconv.FormatInt(int64(v), 10), true
			case int64:
				return strconv.FormatInt(v, 10), true
			case float32:
				return strconv.FormatFloat(float64(v), 'g', -1, 64), true
			case float64:
				return strconv.FormatFloat(v, 'g', -1, 64), true
			default:
				return "", false
			}
		},
		Decode: func(encoded string) (any, bool) {
			f, err := strconv.ParseFloat(encoded, 64)
			if err != nil {
				return nil, false
			}
			return f, true
		},
	})

	return r
}

// RegisterType adds a scalar type. Duplicate tags are rejected.
func (r *Registry) RegisterType(t Type) error {
	if t.Encode == nil || t.Decode == nil {
		return errors.WrapRegistration(errors.ErrNilHandler, "CodecRegistry", "RegisterType", "codec function validation")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tags[t.Tag] {
		return errors.WrapRegistration(errors.ErrDuplicateTag,
			"CodecRegistry", "RegisterType", fmt.Sprintf("tag %q", t.Tag))
	}

	r.tags[t.Tag] = true
	r.types = append(r.types, t)
	return nil
}

// Hooks returns the emitter carrying the HookEncode/HookDecode extension
// events. Hook listeners run strictly sequentially over a shared payload.
func (r *Registry) Hooks() *emitter.Emitter {
	return r.hooks
}

// Encode joins a component id and its positional data into one opaque
// identifier. Encoding an empty data list returns the id unchanged.
func (r *Registry) Encode(ctx context.Context, id string, data []any) (string, error) {
	if id == "" {
		return "", errors.WrapRegistration(errors.ErrEmptyID, "CodecRegistry", "Encode", "id validation")
	}

	var b strings.Builder
	b.WriteString(id)

	for i, value := range data {
		encoded, err := r.encodeValue(ctx, value)
		if err != nil {
			return "", errors.WrapRegistration(err, "CodecRegistry", "Encode",
				fmt.Sprintf("value %d", i))
		}
		b.WriteRune(Separator)
		b.WriteString(encoded)
	}
	return b.String(), nil
}

// Decode splits an opaque identifier back into the component id and its
// positional data. An identifier without a separator decodes to (id, nil).
func (r *Registry) Decode(ctx context.Context, s string) (string, []any) {
	parts := strings.Split(s, string(Separator))
	if len(parts) == 1 {
		return s, nil
	}

	data := make([]any, 0, len(parts)-1)
	for _, part := range parts[1:] {
		data = append(data, r.decodeValue(ctx, part))
	}
	return parts[0], data
}

func (r *Registry) encodeValue(ctx context.Context, value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}

	r.mu.RLock()
	registered := r.types
	r.mu.RUnlock()

	for _, t := range registered {
		if encoded, ok := t.Encode(value); ok {
			return string(t.Tag) + encoded, nil
		}
	}

	payload := &EncodePayload{Value: value}
	r.hooks.Emit(ctx, HookEncode, payload)
	if payload.Handled {
		return payload.Encoded, nil
	}

	return "", fmt.Errorf("unsupported custom data type %T", value)
}

func (r *Registry) decodeValue(ctx context.Context, encoded string) any {
	if encoded == "" {
		return ""
	}

	r.mu.RLock()
	registered := r.types
	r.mu.RUnlock()

	runes := []rune(encoded)
	for _, t := range registered {
		if runes[0] != t.Tag {
			continue
		}
		if value, ok := t.Decode(string(runes[1:])); ok {
			return value
		}
	}

	payload := &DecodePayload{Encoded: encoded}
	r.hooks.Emit(ctx, HookDecode, payload)
	if payload.Handled {
		return payload.Value
	}

	// Untagged (or unrecognized) fields are plain strings.
	return encoded
}
