// Package archive extracts and creates the flat zip archives exchanged with
// the rest of the pipeline.
package archive

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

// Extract writes every file in the archive to destDir and returns their paths,
// sorted. Directory structure inside the archive is flattened.
func Extract(archivePath, destDir string) ([]string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, errors.Wrapf(err, "archive: %s", archivePath)
	}
	defer zr.Close()

	if err := os.MkdirAll(destDir, 0777); err != nil {
		return nil, err
	}

	var paths []string
	seen := make(map[string]string)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := filepath.Base(f.Name)
		if other, ok := seen[name]; ok {
			return nil, errors.Errorf("archive: %s: entries '%s' and '%s' share a file name", archivePath, other, f.Name)
		}
		seen[name] = f.Name

		path := filepath.Join(destDir, name)
		if err := extractFile(f, path); err != nil {
			return nil, errors.Wrapf(err, "archive: %s: %s", archivePath, f.Name)
		}
		paths = append(paths, path)
	}

	sort.Strings(paths)
	return paths, nil
}

func extractFile(f *zip.File, path string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Create writes a zip archive at archivePath holding each of files under its
// base name.
func Create(archivePath string, files []string) (err error) {
	out, err := os.Create(archivePath)
	if err != nil {
		return errors.Wrapf(err, "archive: %s", archivePath)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	zw := zip.NewWriter(out)
	for _, path := range files {
		if err := addFile(zw, path); err != nil {
			return errors.Wrapf(err, "archive: %s", archivePath)
		}
	}
	return zw.Close()
}

func addFile(zw *zip.Writer, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.Base(path)
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}
