// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap

import (
	"bytes"
	"encoding/json"
)

type Map struct {
	items []MapItem
}

type MapItem struct {
	Key   string
	Value interface{}
}

func NewMap() *Map {
	return &Map{}
}

func NewMapWithItems(items []MapItem) *Map {
	return &Map{items}
}

// Set replaces the value of an existing key in place; new keys are appended.
func (m *Map) Set(key string, value interface{}) {
	for i, item := range m.items {
		if item.Key == key {
			m.items[i].Value = value
			return
		}
	}
	m.items = append(m.items, MapItem{key, value})
}

// SetFirst behaves like Set except that a new key is placed before all others.
func (m *Map) SetFirst(key string, value interface{}) {
	for i, item := range m.items {
		if item.Key == key {
			m.items[i].Value = value
			return
		}
	}
	m.items = append([]MapItem{{key, value}}, m.items...)
}

func (m *Map) Get(key string) (interface{}, bool) {
	for _, item := range m.items {
		if item.Key == key {
			return item.Value, true
		}
	}
	return nil, false
}

func (m *Map) Has(key string) bool {
	_, found := m.Get(key)
	return found
}

func (m *Map) Delete(key string) bool {
	for i, item := range m.items {
		if item.Key == key {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true
		}
	}
	return false
}

func (m *Map) Keys() (keys []string) {
	m.Iterate(func(k string, _ interface{}) {
		keys = append(keys, k)
	})
	return
}

func (m *Map) Iterate(iterFunc func(k string, v interface{})) {
	for _, item := range m.items {
		iterFunc(item.Key, item.Value)
	}
}

func (m *Map) IterateErr(iterFunc func(k string, v interface{}) error) error {
	for _, item := range m.items {
		err := iterFunc(item.Key, item.Value)
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Map) Len() int { return len(m.items) }

// DeepCopy copies nested maps and arrays; scalars are shared.
func (m *Map) DeepCopy() *Map {
	result := &Map{items: make([]MapItem, 0, len(m.items))}
	for _, item := range m.items {
		result.items = append(result.items, MapItem{item.Key, DeepCopyValue(item.Value)})
	}
	return result
}

func DeepCopyValue(val interface{}) interface{} {
	switch typedVal := val.(type) {
	case *Map:
		return typedVal.DeepCopy()
	case []interface{}:
		result := make([]interface{}, 0, len(typedVal))
		for _, item := range typedVal {
			result = append(result, DeepCopyValue(item))
		}
		return result
	default:
		return val
	}
}

var _ json.Marshaler = &Map{}

// MarshalJSON keeps keys in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte('{')

	for i, item := range m.items {
		if i > 0 {
			buf.WriteByte(',')
		}
		err := encodeJSONValue(buf, item.Key)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		err = encodeJSONValue(buf, item.Value)
		if err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeJSONValue writes val without escaping '<', '>' and '&'.
func encodeJSONValue(buf *bytes.Buffer, val interface{}) error {
	var valBuf bytes.Buffer
	enc := json.NewEncoder(&valBuf)
	enc.SetEscapeHTML(false)

	err := enc.Encode(val)
	if err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(valBuf.Bytes(), []byte("\n")))
	return nil
}
