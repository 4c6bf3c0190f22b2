package ioutil

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// MakeExecutable adds execute permissions (0111) to a file.
// It preserves the existing file mode and adds the execute bits.
func MakeExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat binary: %w", err)
	}

	newMode := info.Mode() | 0o111
	if err := os.Chmod(path, newMode); err != nil {
		return fmt.Errorf("failed to make binary executable: %w", err)
	}

	return nil
}

// FindExecutable walks a directory tree looking for a file whose name ends with
// one of the provided suffixes. Returns the path to the first matching file found.
// If no matching file is found, returns an empty string and nil error.
func FindExecutable(dir string, suffixes []string) (string, error) {
	var result string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}

		slashed := filepath.ToSlash(path)
		for _, suffix := range suffixes {
			if strings.HasSuffix(slashed, suffix) {
				result = path
				return filepath.SkipAll
			}
		}

		return nil
	})

	if err != nil {
		return "", err
	}

	return result, nil
}

// ExtractNatives unpacks a natives jar into destDir, skipping directories and
// every entry whose name starts with one of the exclude prefixes
// (typically "META-INF/").
func ExtractNatives(jarPath, destDir string, exclude []string) error {
	r, err := zip.OpenReader(jarPath)
	if err != nil {
		return fmt.Errorf("failed to open natives jar: %w", err)
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	root := filepath.Clean(destDir) + string(os.PathSeparator)

entries:
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		for _, prefix := range exclude {
			if strings.HasPrefix(f.Name, prefix) {
				continue entries
			}
		}

		destPath := filepath.Join(destDir, f.Name)

		// Check for path traversal
		if !strings.HasPrefix(destPath, root) {
			return fmt.Errorf("invalid file path: %s", f.Name)
		}

		if err := extractFile(f, destPath); err != nil {
			return fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}
	}

	return nil
}

func extractFile(f *zip.File, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	outFile, err := os.Create(destPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(outFile, rc); err != nil {
		outFile.Close()
		return err
	}
	return outFile.Close()
}
