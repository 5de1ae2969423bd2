package zen

import (
	"github.com/goccy/go-json"
)

// EncodeJSON renders a value as compact JSON.
func EncodeJSON(v Value) (string, error) {
	data, err := json.Marshal(ToNative(v))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeJSON parses JSON text into a value.
func DecodeJSON(text string) (Value, error) {
	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return NewNull(), err
	}
	return FromNative(decoded), nil
}

// builtinParseJSON yields null for malformed input rather than failing.
func builtinParseJSON(in *Interpreter, args []Value) (Value, error) {
	val, err := DecodeJSON(Arg(args, 0).String())
	if err != nil {
		in.log.Debug().Err(err).Msg("parseJSON: invalid input")
		return NewNull(), nil
	}
	return val, nil
}

func builtinToJSON(_ *Interpreter, args []Value) (Value, error) {
	text, err := EncodeJSON(Arg(args, 0))
	if err != nil {
		return NewString("{}"), nil
	}
	return NewString(text), nil
}
