/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package node

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Loader reads a specification tree.
type Loader func(ctx context.Context, r io.Reader) (*Node, error)

// LoaderFor picks a Loader based on a filename's extension: YAML for
// .yaml and .yml, XML for everything else.
func LoaderFor(filename string) Loader {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return LoadYAML
	}
	return LoadXML
}

// Load reads and parses the given file.
func Load(ctx context.Context, filename string) (*Node, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return LoaderFor(filename)(ctx, bytes.NewReader(src))
}
