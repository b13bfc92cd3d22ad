package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// zipDirectory packages sourceDir into a zip container at zipPath. Entries
// are rooted at the directory's own name so the archive unpacks into a
// single folder. An existing container at zipPath is replaced.
func zipDirectory(sourceDir, zipPath string) error {
	if err := os.Remove(zipPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing archive %s: %w", zipPath, err)
	}

	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", zipPath, err)
	}
	defer out.Close()

	writer := zip.NewWriter(out)
	root := filepath.Dir(sourceDir)

	err = filepath.WalkDir(sourceDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if entry.IsDir() {
			_, err := writer.Create(name + "/")
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		dst, err := writer.Create(name)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(dst, src)
		return err
	})
	if err != nil {
		writer.Close()
		return fmt.Errorf("failed to package %s: %w", sourceDir, err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive %s: %w", zipPath, err)
	}
	return out.Close()
}
