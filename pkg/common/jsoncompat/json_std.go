//go:build !sonicjson

package jsoncompat

import "encoding/json"

// Marshal proxies to the standard library when the sonicjson build tag is absent.
func Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal proxies to the standard library when the sonicjson build tag is absent.
func Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
