package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProject(t *testing.T) (*Service, string) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "cafe-x-1")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pages"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "public", "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pages", "home.tsx"), []byte("export default x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"x"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public", "images", "logo.png"), []byte{0x89, 0x50}, 0o644))

	svc, err := NewService(root)
	require.NoError(t, err)
	return svc, root
}

func TestTree(t *testing.T) {
	svc, _ := seedProject(t)

	tree, err := svc.Tree("cafe-x-1")
	require.NoError(t, err)
	assert.Equal(t, "cafe-x-1", tree.Name)
	assert.Equal(t, "directory", tree.Type)

	// os.ReadDir ordering: package.json, pages, public.
	require.Len(t, tree.Children, 3)
	assert.Equal(t, "package.json", tree.Children[0].Name)
	assert.Equal(t, "file", tree.Children[0].Type)
	assert.Equal(t, int64(12), tree.Children[0].Size)

	pages := tree.Children[1]
	require.Equal(t, "pages", pages.Name)
	require.Len(t, pages.Children, 1)
	assert.Equal(t, "pages/home.tsx", pages.Children[0].Path)
}

func TestTreeUnknownProject(t *testing.T) {
	svc, _ := seedProject(t)
	_, err := svc.Tree("no-such-project")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTreeRejectsBadID(t *testing.T) {
	svc, _ := seedProject(t)
	for _, id := range []string{"", ".", "..", "../cafe-x-1", "a/b", `a\b`} {
		_, err := svc.Tree(id)
		assert.ErrorIs(t, err, ErrForbidden, "id %q", id)
	}
}

func TestMetadata(t *testing.T) {
	svc, _ := seedProject(t)

	meta, err := svc.Metadata("cafe-x-1")
	require.NoError(t, err)
	assert.Equal(t, "cafe-x-1", meta.ProjectID)
	assert.Equal(t, 3, meta.FileCount)
	assert.Equal(t, 3, meta.DirCount)
	assert.Equal(t, int64(16+12+2), meta.SizeBytes)
	assert.False(t, meta.Created.IsZero())
	assert.False(t, meta.Modified.IsZero())
	require.NotNil(t, meta.PackageInfo)
	assert.Equal(t, "x", meta.PackageInfo.Name)

	again, err := svc.Metadata("cafe-x-1")
	require.NoError(t, err)
	assert.Equal(t, meta, again)
}

func TestReadFile(t *testing.T) {
	svc, _ := seedProject(t)

	data, err := svc.ReadFile("cafe-x-1", "pages/home.tsx")
	require.NoError(t, err)
	assert.Equal(t, "export default x", string(data))

	_, err = svc.ReadFile("cafe-x-1", "pages/missing.tsx")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenStreamsBinary(t *testing.T) {
	svc, _ := seedProject(t)

	rc, err := svc.Open("cafe-x-1", "public/images/logo.png")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 0x50}, data)

	_, err = svc.Open("cafe-x-1", "../secret.txt")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestIsTextFile(t *testing.T) {
	assert.True(t, IsTextFile("pages/home.tsx"))
	assert.True(t, IsTextFile("README.MD"))
	assert.False(t, IsTextFile("public/images/logo.png"))
	assert.False(t, IsTextFile("Makefile"))
}

func TestReadFileTraversal(t *testing.T) {
	svc, root := seedProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.txt"), []byte("outside"), 0o644))

	_, err := svc.ReadFile("cafe-x-1", "../secret.txt")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRemove(t *testing.T) {
	svc, root := seedProject(t)

	require.NoError(t, svc.Remove("cafe-x-1"))
	_, err := os.Stat(filepath.Join(root, "cafe-x-1"))
	assert.True(t, os.IsNotExist(err))

	_, err = svc.Tree("cafe-x-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Remove("cafe-x-1"), ErrNotFound)
	assert.ErrorIs(t, svc.Remove("../cafe-x-1"), ErrForbidden)
}

func TestWriteZip(t *testing.T) {
	svc, _ := seedProject(t)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteZip(&buf, "cafe-x-1"))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["cafe-x-1/pages/home.tsx"], "entries: %v", names)
	assert.True(t, names["cafe-x-1/package.json"])
	assert.True(t, names["cafe-x-1/public/images/logo.png"])
}

func TestWriteZipUnknownProjectWritesNothing(t *testing.T) {
	svc, _ := seedProject(t)

	var buf bytes.Buffer
	err := svc.WriteZip(&buf, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, buf.Len(), "no bytes may be written before the project is resolved")
}
