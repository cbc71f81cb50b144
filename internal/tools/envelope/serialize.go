package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// SerializationFailed is the error summary used when a result cannot be
// rendered as JSON.
const SerializationFailed = "Failed to serialize response"

// Serialize renders v as indented JSON. Records render through their JSON
// tags, dates and timestamps as ISO 8601 text, and a nil slice as an empty
// array. Serialize never panics: when v cannot be rendered it returns an
// error envelope with SerializationFailed as the summary.
func Serialize(v any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = serializationError(fmt.Errorf("panic: %v", r))
		}
	}()

	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice && rv.IsNil() {
		return "[]"
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return serializationError(err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

func serializationError(err error) string {
	data, _ := json.MarshalIndent(ErrorEnvelope{
		Error:   SerializationFailed,
		Details: err.Error(),
	}, "", "  ")
	return string(data)
}
