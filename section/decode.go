package section

import (
	"encoding/json"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

var unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

// decodePayload fills p from a JSON object. Every field is optional: a
// value of the wrong kind leaves its field at the zero value instead of
// failing the whole payload. Numbers and strings convert into each other.
// Only a payload that is not an object is an error.
func decodePayload(raw json.RawMessage, p any) error {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return errors.Wrap(err, "payload is not an object")
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       jsonUnmarshalerHook,
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           p,
	})
	if err != nil {
		return err
	}
	// field errors are expected and leave the field unset
	_ = dec.Decode(fields)
	return nil
}

// jsonUnmarshalerHook hands values for types with their own JSON decoding,
// such as rich-text documents, back to encoding/json.
func jsonUnmarshalerHook(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Pointer || from == to || !to.Implements(unmarshalerType) {
		return data, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, nil
	}
	v := reflect.New(to.Elem())
	if err := v.Interface().(json.Unmarshaler).UnmarshalJSON(b); err != nil {
		return nil, nil
	}
	return v.Interface(), nil
}
