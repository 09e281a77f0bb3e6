package utils

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ImageExtensions are the accepted input extensions, without the dot
var ImageExtensions = []string{"jpg", "jpeg", "png", "bmp"}

// EnsureDir creates a directory if it doesn't exist. Calling it on an
// existing directory is not an error.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// GetFileExtension returns the lower-cased file extension without the dot
func GetFileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if len(ext) > 0 {
		return strings.ToLower(ext[1:])
	}
	return ""
}

// IsImageFile checks if a file has an accepted image extension
func IsImageFile(filename string) bool {
	return slices.Contains(ImageExtensions, GetFileExtension(filename))
}

// ListImageFiles lists the names of image files directly inside dir, sorted
// by name. Subdirectories are not descended into.
func ListImageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !IsImageFile(entry.Name()) {
			continue
		}
		if !isRegular(dir, entry) {
			continue
		}
		files = append(files, entry.Name())
	}

	return files, nil
}

func isRegular(dir string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	// follow symlinks
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}

// OutputPath returns where the result for inputFile goes inside outputDir
func OutputPath(inputFile, outputDir string) string {
	return filepath.Join(outputDir, filepath.Base(inputFile))
}

// DirExists checks if a directory exists
func DirExists(dirname string) bool {
	if dirname == "" {
		return false
	}
	info, err := os.Stat(dirname)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ValidSubdirName reports whether name can be used as a single output
// directory component
func ValidSubdirName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\:*?"<>|`) {
		return false
	}
	return strings.Trim(name, " .") == name
}
