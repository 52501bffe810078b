// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/modpm/modpm/pkg/cueutil"
	"github.com/modpm/modpm/pkg/types"
)

// FileName is the manifest file name at the root of a module.
const FileName = "modpm.cue"

//go:embed manifest_schema.cue
var schema []byte

// Manifest is the decoded content of a modpm.cue file.
type Manifest struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Description  string   `json:"description"`
	Author       string   `json:"author"`
	License      string   `json:"license"`
	RepoURL      string   `json:"repo_url"`
	Dependencies []string `json:"dependencies"`
}

// Parse decodes manifest bytes. filename is only used in error messages.
func Parse(data []byte, filename string) (*Manifest, error) {
	return cueutil.Decode[Manifest](schema, data, "#Manifest", cueutil.WithFilename(filename))
}

// Load reads the manifest in dir. A missing file is Absent, an unreadable or
// invalid one is Failed.
func Load(dir string) types.Lookup[*Manifest] {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.Absent[*Manifest]()
		}
		return types.Failed[*Manifest](fmt.Errorf("read manifest: %w", err))
	}

	m, err := Parse(data, path)
	if err != nil {
		return types.Failed[*Manifest](err)
	}
	return types.Found(m)
}

// Exists reports whether dir has a manifest file, without parsing it.
func Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil && !info.IsDir()
}
