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
	"bytes"
	"fmt"
	"sort"

	_cbor "github.com/fxamacker/cbor/v2"
)

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for data
func Diagnose(data []byte) (string, error) {
	return _cbor.Diagnose(data)
}

// DumpCborStructure generates an indented string representing a normalized value
// tree for debugging purposes. Map entries are sorted by their printed keys so
// the output is stable.
func DumpCborStructure(data any, prefix string) string {
	var ret bytes.Buffer
	switch v := data.(type) {
	case int, uint, int16, uint16, int32, uint32, int64, uint64:
		return fmt.Sprintf("%s0x%x (%d),\n", prefix, v, v)
	case ByteString:
		return fmt.Sprintf("%s<bytes> %s (length %d),\n", prefix, v.String(), len(v.Bytes()))
	case []uint8:
		return fmt.Sprintf("%s<bytes> (length %d),\n", prefix, len(v))
	case []any:
		ret.WriteString(prefix + "[\n")
		for _, val := range v {
			ret.WriteString(DumpCborStructure(val, nestedPrefix(prefix)))
		}
		ret.WriteString(prefix + "],\n")
	case map[any]any:
		ret.WriteString(prefix + "{\n")
		newPrefix := nestedPrefix(prefix)
		lines := make([]string, 0, len(v))
		for key, val := range v {
			switch val.(type) {
			case []any, map[any]any:
				lines = append(
					lines,
					fmt.Sprintf("%s%#v =>\n%s", newPrefix, key, DumpCborStructure(val, nestedPrefix(newPrefix))),
				)
			default:
				lines = append(lines, fmt.Sprintf("%s%#v => %#v,\n", newPrefix, key, val))
			}
		}
		sort.Strings(lines)
		for _, line := range lines {
			ret.WriteString(line)
		}
		ret.WriteString(prefix + "}\n")
	default:
		return fmt.Sprintf("%s%#v,\n", prefix, v)
	}
	return ret.String()
}

func nestedPrefix(prefix string) string {
	// Override original user-provided prefix
	// This assumes the original prefix won't start with a space
	if len(prefix) > 1 && prefix[0] != ' ' {
		prefix = ""
	}
	// Add 2 more spaces to the new prefix
	return "  " + prefix
}
