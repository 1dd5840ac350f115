package perfectmoney

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// FieldProviderError is the key the provider uses to report a rejected request
const FieldProviderError = "ERROR"

// Values is an ordered string mapping parsed from a provider response.
// Setting an existing key replaces its value and keeps its first position.
type Values struct {
	keys []string
	m    map[string]string
}

// NewValues creates an empty mapping
func NewValues() *Values {
	return &Values{m: make(map[string]string)}
}

// Set stores value under key
func (v *Values) Set(key, value string) {
	if _, exists := v.m[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.m[key] = value
}

// Get returns the value for key or ""
func (v *Values) Get(key string) string {
	return v.m[key]
}

// Lookup returns the value for key and whether it was present
func (v *Values) Lookup(key string) (string, bool) {
	value, ok := v.m[key]
	return value, ok
}

// Keys returns keys in order of first appearance
func (v *Values) Keys() []string {
	return append([]string(nil), v.keys...)
}

// Len returns the number of distinct keys
func (v *Values) Len() int {
	return len(v.keys)
}

// Map returns an unordered copy
func (v *Values) Map() map[string]string {
	m := make(map[string]string, len(v.m))
	for k, val := range v.m {
		m[k] = val
	}
	return m
}

// Decimal parses the value for key as an amount
func (v *Values) Decimal(key string) (decimal.Decimal, error) {
	value, ok := v.m[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("perfectmoney: field %s not present", key)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("perfectmoney: field %s: %w", key, err)
	}
	return d, nil
}

// ProviderError returns a *ProviderError when the response carries an ERROR field
func (v *Values) ProviderError() error {
	if message, ok := v.m[FieldProviderError]; ok {
		return &ProviderError{Message: message}
	}
	return nil
}

// MarshalJSON keeps key order
func (v *Values) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range v.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v.m[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
