// Copyright 2026 The FAIR Package Manager Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cbor

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FromNative builds a value tree from plain Go data, such as the output of
// encoding/json (with UseNumber) or a YAML decoder. Maps become CanonicalMaps.
// Floating point numbers are not supported, including integral ones, since
// the canonical form must not depend on how a decoder typed a number.
func FromNative(v any) (Encodable, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Encodable:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return Text(val), nil
	case []byte:
		return Bytes(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		return Uint(val), nil
	case uint8:
		return Uint(val), nil
	case uint16:
		return Uint(val), nil
	case uint32:
		return Uint(val), nil
	case uint64:
		return Uint(val), nil
	case json.Number:
		return fromJSONNumber(val)
	case []any:
		ret := make(Array, 0, len(val))
		for idx, item := range val {
			tmpItem, err := FromNative(item)
			if err != nil {
				return nil, fmt.Errorf("array item %d: %w", idx, err)
			}
			ret = append(ret, tmpItem)
		}
		return ret, nil
	case []string:
		ret := make(Array, 0, len(val))
		for _, item := range val {
			ret = append(ret, Text(item))
		}
		return ret, nil
	case map[string]any:
		ret := &CanonicalMap{}
		for key, item := range val {
			tmpItem, err := FromNative(item)
			if err != nil {
				return nil, fmt.Errorf("map key %q: %w", key, err)
			}
			if err := ret.Add(Text(key), tmpItem); err != nil {
				return nil, err
			}
		}
		return ret, nil
	case map[string]string:
		ret := &CanonicalMap{}
		for key, item := range val {
			if err := ret.Add(Text(key), Text(item)); err != nil {
				return nil, err
			}
		}
		return ret, nil
	case map[any]any:
		ret := &CanonicalMap{}
		for key, item := range val {
			tmpKey, err := FromNative(key)
			if err != nil {
				return nil, fmt.Errorf("map key %v: %w", key, err)
			}
			tmpItem, err := FromNative(item)
			if err != nil {
				return nil, fmt.Errorf("map key %v: %w", key, err)
			}
			if err := ret.Add(tmpKey, tmpItem); err != nil {
				return nil, err
			}
		}
		return ret, nil
	default:
		return nil, UnsupportedTypeError{Value: v}
	}
}

func fromJSONNumber(n json.Number) (Encodable, error) {
	if i, err := n.Int64(); err == nil {
		return Int(i), nil
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return Uint(u), nil
	}
	return nil, UnsupportedTypeError{Value: n}
}
