package archive

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// WriteZip streams the whole project as a zip archive with every entry
// prefixed by the project id. The project is resolved before the first byte
// is written, so callers can still send a not-found response on error.
func (s *Service) WriteZip(w io.Writer, projectID string) error {
	sfs, err := s.fsFor(projectID)
	if err != nil {
		return err
	}
	root := sfs.Root()

	zw := zip.NewWriter(w)
	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = path.Join(projectID, filepath.ToSlash(rel))
		hdr.Method = zip.Deflate
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		_, err = io.Copy(fw, f)
		f.Close()
		return err
	})
	if walkErr != nil {
		zw.Close()
		return walkErr
	}
	return zw.Close()
}
