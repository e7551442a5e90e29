package codefile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type Operation string

const (
	OpCreate    Operation = "create"
	OpOverwrite Operation = "overwrite"
	OpSkip      Operation = "skip"
)

// CodeFile is one generated artifact: where it goes, what it holds and what
// writing it would do to the file system.
type CodeFile struct {
	Path      string
	Content   string
	Operation Operation
}

func New(path, content string) *CodeFile {
	f := &CodeFile{
		Path:      filepath.Clean(path),
		Content:   content,
		Operation: OpCreate,
	}

	existing, err := os.ReadFile(f.Path)
	if err != nil {
		return f
	}
	if bytes.Equal(existing, []byte(content)) {
		f.Operation = OpSkip
	} else {
		f.Operation = OpOverwrite
	}
	return f
}

func (f *CodeFile) Save() error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
	}
	if err := os.WriteFile(f.Path, []byte(f.Content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.Path, err)
	}
	return nil
}

// Diff renders the change from the file on disk to the generated content.
// A missing file diffs as empty.
func (f *CodeFile) Diff() (string, error) {
	existing, err := os.ReadFile(f.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to read %s: %w", f.Path, err)
	}
	return Diff(string(existing), f.Content), nil
}

type Result struct {
	File  *CodeFile
	Saved bool
	Err   error
}

// SaveAll writes a batch. Unchanged files are left alone and files that
// differ from disk are only replaced when overwrite is set.
func SaveAll(files []*CodeFile, overwrite bool) []Result {
	results := make([]Result, 0, len(files))
	for _, f := range files {
		res := Result{File: f}
		switch {
		case f.Operation == OpSkip:
		case f.Operation == OpOverwrite && !overwrite:
		default:
			res.Err = f.Save()
			res.Saved = res.Err == nil
		}
		results = append(results, res)
	}
	return results
}
