package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Exists checks if the given file or folder for a path exists
func Exists(path string) bool {
	if path == "" {
		return false
	}

	_, err := os.Stat(path)
	if err != nil || os.IsNotExist(err) {
		return false
	}

	return true
}

// Save saves data to a file, replacing any previous content
func Save(name string, data []byte) error {
	exists := Exists(name)
	if exists {
		err := EraseFile(name)
		if err != nil {
			return err
		}
	}
	return os.WriteFile(name, data, os.FileMode(0644))
}

// SaveJSON writes v as 2-space indented JSON, creating the parent folder when needed
func SaveJSON(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if err := CreateDir(filepath.Dir(name)); err != nil {
		return err
	}

	return Save(name, b)
}

// Read reads data from a file
func Read(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// ReadJSON decodes the JSON file at name into v
func ReadJSON(name string, v any) error {
	b, err := Read(name)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, v)
}

// CreateDir creates a directory
func CreateDir(dir string) error {
	return os.MkdirAll(dir, os.FileMode(0755))
}

// EraseFile erases the file
func EraseFile(file string) error {
	return os.Remove(file)
}
