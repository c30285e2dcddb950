package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ReadTime is the estimated reading time in minutes. Files and payloads carry
// it either as a number ("5") or as free text ("5 min"); the text form is kept.
type ReadTime string

// Minutes returns the numeric value when the read time is a plain integer.
func (rt ReadTime) Minutes() (int, bool) {
	n, err := strconv.Atoi(string(rt))
	if err != nil || strconv.Itoa(n) != string(rt) {
		return 0, false
	}
	return n, true
}

func (rt *ReadTime) set(v interface{}) error {
	switch val := v.(type) {
	case nil:
		*rt = ""
	case string:
		*rt = ReadTime(val)
	case int:
		*rt = ReadTime(strconv.Itoa(val))
	case int64:
		*rt = ReadTime(strconv.FormatInt(val, 10))
	case uint64:
		*rt = ReadTime(strconv.FormatUint(val, 10))
	case float64:
		*rt = ReadTime(strconv.FormatFloat(val, 'f', -1, 64))
	case json.Number:
		*rt = ReadTime(val.String())
	default:
		return fmt.Errorf("readTime: unsupported value %v (%T)", v, v)
	}
	return nil
}

// MarshalYAML writes integer read times as YAML numbers.
func (rt ReadTime) MarshalYAML() (interface{}, error) {
	if n, ok := rt.Minutes(); ok {
		return n, nil
	}
	return string(rt), nil
}

// UnmarshalYAML accepts any YAML scalar.
func (rt *ReadTime) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	return rt.set(raw)
}

// UnmarshalTOML accepts TOML integers, floats and strings.
func (rt *ReadTime) UnmarshalTOML(v interface{}) error {
	return rt.set(v)
}

// MarshalJSON writes integer read times as JSON numbers.
func (rt ReadTime) MarshalJSON() ([]byte, error) {
	if n, ok := rt.Minutes(); ok {
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(string(rt))
}

// UnmarshalJSON accepts a JSON number, string or null.
func (rt *ReadTime) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	return rt.set(raw)
}
