// Package manifest generates and verifies the repository manifest: a JSON
// map of every data file to its Git blob SHA-1 and size. Sync clients use
// the manifest to decide which files changed without downloading them.
package manifest

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Manifest is the on-disk manifest document.
type Manifest struct {
	Generated time.Time            `json:"generated"`
	Files     map[string]FileEntry `json:"files"`
}

// FileEntry records one file's identity.
type FileEntry struct {
	SHA  string `json:"sha"`
	Size int64  `json:"size"`
}

// Source names a directory to include in the manifest. Key prefixes every
// path from the directory, matching the repository-root-relative layout
// sync clients expect (e.g. "sets/LOB.json").
type Source struct {
	Key  string
	Path string
}

// BlobSHA1 computes the Git blob hash of data:
// sha1("blob <len>\0" + data).
func BlobSHA1(data []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d", len(data))
	h.Write([]byte{0})
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Build walks every source directory and records each JSON file.
func Build(sources []Source) (*Manifest, error) {
	m := &Manifest{
		Generated: time.Now().UTC(),
		Files:     make(map[string]FileEntry),
	}

	for _, src := range sources {
		err := filepath.WalkDir(src.Path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
				return nil
			}

			data, err := os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("read %s: %w", p, err)
			}

			rel, err := filepath.Rel(src.Path, p)
			if err != nil {
				return err
			}
			key := filepath.ToSlash(rel)
			if src.Key != "" {
				key = src.Key + "/" + key
			}

			m.Files[key] = FileEntry{
				SHA:  BlobSHA1(data),
				Size: int64(len(data)),
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", src.Path, err)
		}
	}

	if len(m.Files) == 0 {
		return nil, fmt.Errorf("no JSON files found in any source")
	}
	return m, nil
}

// Write saves the manifest atomically via a temp file rename.
func (m *Manifest) Write(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create manifest dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return os.Rename(tmp, path)
}

// Read loads a manifest document from disk.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// VerifyResult lists how the on-disk files diverge from a manifest.
type VerifyResult struct {
	Missing  []string // listed in the manifest, absent on disk
	Modified []string // present but with a different blob hash or size
	Unlisted []string // present on disk, absent from the manifest
}

// Clean reports whether the files match the manifest exactly.
func (r *VerifyResult) Clean() bool {
	return len(r.Missing) == 0 && len(r.Modified) == 0 && len(r.Unlisted) == 0
}

// Verify rebuilds a manifest from the sources and diffs it against m.
func Verify(m *Manifest, sources []Source) (*VerifyResult, error) {
	current, err := Build(sources)
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{}
	for key, want := range m.Files {
		got, ok := current.Files[key]
		if !ok {
			result.Missing = append(result.Missing, key)
			continue
		}
		if got.SHA != want.SHA || got.Size != want.Size {
			result.Modified = append(result.Modified, key)
		}
	}
	for key := range current.Files {
		if _, ok := m.Files[key]; !ok {
			result.Unlisted = append(result.Unlisted, key)
		}
	}

	sort.Strings(result.Missing)
	sort.Strings(result.Modified)
	sort.Strings(result.Unlisted)
	return result, nil
}
