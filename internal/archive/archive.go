// Package archive inspects and exports generated project directories: tree
// listings, text-file reads, metadata summaries, and zip downloads. All path
// handling goes through safeio so a crafted request cannot climb out of the
// projects root.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"siteforge/internal/safeio"
)

var (
	// ErrNotFound marks a project or file that does not exist.
	ErrNotFound = errors.New("archive: not found")
	// ErrForbidden marks a request shaped to escape the projects root.
	ErrForbidden = errors.New("archive: access denied")
)

// textExtensions is the allow-list of file types served inline as text.
// Everything else streams as binary.
var textExtensions = map[string]bool{
	".ts":   true,
	".tsx":  true,
	".js":   true,
	".jsx":  true,
	".css":  true,
	".html": true,
	".json": true,
	".md":   true,
	".yml":  true,
	".yaml": true,
	".txt":  true,
}

// IsTextFile reports whether the file's extension is on the inline-read
// allow-list. The check is case-insensitive on the extension only.
func IsTextFile(name string) bool {
	return textExtensions[strings.ToLower(path.Ext(name))]
}

// Node is one entry in a project tree listing. Directory children are sorted
// by name; files carry their byte size.
type Node struct {
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	Type     string  `json:"type"`
	Size     int64   `json:"size,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Metadata summarizes one project directory. Created and Modified are the
// oldest and newest file mtimes in the tree (the filesystem keeps no portable
// birth time).
type Metadata struct {
	ProjectID   string       `json:"projectId"`
	FileCount   int          `json:"fileCount"`
	DirCount    int          `json:"dirCount"`
	SizeBytes   int64        `json:"sizeBytes"`
	Created     time.Time    `json:"created"`
	Modified    time.Time    `json:"modified"`
	PackageInfo *PackageInfo `json:"packageInfo,omitempty"`
}

// PackageInfo is the identifying slice of the project's package.json.
type PackageInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type metadataKey struct {
	id  string
	mod int64
}

// Service reads project directories under a fixed root.
type Service struct {
	root  string
	cache *lru.Cache[metadataKey, Metadata]
}

func NewService(root string) (*Service, error) {
	cache, err := lru.New[metadataKey, Metadata](256)
	if err != nil {
		return nil, err
	}
	return &Service{root: root, cache: cache}, nil
}

// fsFor validates the id shape before touching the filesystem, then anchors
// a SafeFS at the project directory. A malformed id is forbidden; a missing
// directory is not found.
func (s *Service) fsFor(projectID string) (*safeio.SafeFS, error) {
	if !validProjectID(projectID) {
		return nil, fmt.Errorf("%w: bad project id %q", ErrForbidden, projectID)
	}
	dir := filepath.Join(s.root, projectID)
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	return safeio.NewSafeFS(dir)
}

// validProjectID accepts a single path segment. Anything with separators or
// dot segments gets rejected before it reaches the filesystem.
func validProjectID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}

// Tree returns the full recursive listing of a project directory.
func (s *Service) Tree(projectID string) (*Node, error) {
	sfs, err := s.fsFor(projectID)
	if err != nil {
		return nil, err
	}
	root := &Node{Name: projectID, Path: "", Type: "directory"}
	if err := fill(sfs, root); err != nil {
		return nil, err
	}
	return root, nil
}

func fill(sfs *safeio.SafeFS, n *Node) error {
	rel := n.Path
	if rel == "" {
		rel = "."
	}
	entries, err := sfs.SafeReadDir(rel)
	if err != nil {
		return err
	}
	// os.ReadDir returns entries sorted by name already.
	for _, e := range entries {
		child := &Node{
			Name: e.Name(),
			Path: path.Join(n.Path, e.Name()),
		}
		if e.IsDir() {
			child.Type = "directory"
			if err := fill(sfs, child); err != nil {
				return err
			}
		} else {
			child.Type = "file"
			if info, ierr := e.Info(); ierr == nil {
				child.Size = info.Size()
			}
		}
		n.Children = append(n.Children, child)
	}
	return nil
}

// Metadata walks the project once and caches the summary keyed by the root
// directory's mtime. In-place overwrites deep in the tree do not move that
// mtime, so sizes can lag until the next structural change.
func (s *Service) Metadata(projectID string) (Metadata, error) {
	sfs, err := s.fsFor(projectID)
	if err != nil {
		return Metadata{}, err
	}
	rootInfo, err := os.Stat(sfs.Root())
	if err != nil {
		return Metadata{}, err
	}
	key := metadataKey{id: projectID, mod: rootInfo.ModTime().UnixNano()}
	if meta, ok := s.cache.Get(key); ok {
		return meta, nil
	}

	meta := Metadata{ProjectID: projectID, Created: rootInfo.ModTime(), Modified: rootInfo.ModTime()}
	err = filepath.WalkDir(sfs.Root(), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != sfs.Root() {
				meta.DirCount++
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		meta.FileCount++
		meta.SizeBytes += info.Size()
		if info.ModTime().After(meta.Modified) {
			meta.Modified = info.ModTime()
		}
		if info.ModTime().Before(meta.Created) {
			meta.Created = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return Metadata{}, err
	}
	if data, perr := sfs.SafeReadFile("package.json"); perr == nil {
		var pkg PackageInfo
		if json.Unmarshal(data, &pkg) == nil && pkg.Name != "" {
			meta.PackageInfo = &pkg
		}
	}
	s.cache.Add(key, meta)
	return meta, nil
}

// ReadFile returns the contents of one file inside a project. Paths that
// escape the project are forbidden. Callers decide the representation with
// IsTextFile: text goes inline, everything else should stream through Open.
func (s *Service) ReadFile(projectID, file string) ([]byte, error) {
	sfs, err := s.fsFor(projectID)
	if err != nil {
		return nil, err
	}
	data, err := sfs.SafeReadFile(filepath.FromSlash(file))
	return data, mapReadErr(err, file)
}

// Open returns a reader over one project file for streaming larger or binary
// content. The caller closes it.
func (s *Service) Open(projectID, file string) (io.ReadCloser, error) {
	sfs, err := s.fsFor(projectID)
	if err != nil {
		return nil, err
	}
	f, err := sfs.SafeOpen(filepath.FromSlash(file))
	if err != nil {
		return nil, mapReadErr(err, file)
	}
	return f, nil
}

// Remove deletes a project tree from the root. The id is validated the same
// way reads are, so a traversal-shaped id never reaches the filesystem.
func (s *Service) Remove(projectID string) error {
	if _, err := s.fsFor(projectID); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.root, projectID))
}

func mapReadErr(err error, file string) error {
	switch {
	case errors.Is(err, safeio.ErrTraversal):
		return fmt.Errorf("%w: %s", ErrForbidden, file)
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrNotFound, file)
	}
	return err
}
