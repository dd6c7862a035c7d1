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

package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON  = "json"
	formatJSONC = "jsonc"
	formatYAML  = "yaml"
)

// readInput reads from the file named by the last argument if it exists,
// otherwise from stdin. It returns the data, the remaining arguments and the
// file name (empty for stdin).
func (a *app) readInput(args []string, hexMode bool) ([]byte, []string, string, error) {
	var data []byte
	var name string
	remainingArgs := args

	if length := len(args); length > 0 {
		candidate := args[length-1]
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			data, err = os.ReadFile(candidate)
			if err != nil {
				return nil, nil, "", fmt.Errorf("read %s: %w", candidate, err)
			}
			remainingArgs = args[:length-1]
			name = candidate
		}
	}

	if data == nil {
		var err error
		data, err = io.ReadAll(a.stdin)
		if err != nil {
			return nil, nil, "", fmt.Errorf("read stdin: %w", err)
		}
	}
	a.logger.Debug("read input", "source", inputName(name), "bytes", len(data))

	if hexMode {
		decoded, err := decodeHexInput(data)
		if err != nil {
			return nil, nil, "", err
		}
		data = decoded
	}
	return data, remainingArgs, name, nil
}

func inputName(name string) string {
	if name == "" {
		return "stdin"
	}
	return name
}

// decodeHexInput strips whitespace from hex-encoded input and decodes it
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	if len(cleaned) == 0 {
		return nil, fmt.Errorf("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded[:count], nil
}

// detectFormat picks the document format from the flag value or the file extension
func detectFormat(format string, name string) (string, error) {
	if format != "" {
		switch format {
		case formatJSON, formatJSONC, formatYAML:
			return format, nil
		case "yml":
			return formatYAML, nil
		}
		return "", fmt.Errorf("unknown format %q (expected json, jsonc or yaml)", format)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".jsonc":
		return formatJSONC, nil
	}
	return formatJSON, nil
}

// parseDocument decodes a JSON, JSONC or YAML document into plain Go values.
// JSON numbers are kept as json.Number so integers keep their exact value.
func parseDocument(data []byte, format string) (any, error) {
	var ret any
	switch format {
	case formatYAML:
		if err := yaml.Unmarshal(data, &ret); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
		return ret, nil
	case formatJSONC:
		data = jsonc.ToJSON(data)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&ret); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parse JSON: unexpected data after document")
	}
	return ret, nil
}
