package resource

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/An00bRektn/htb-cli/internal/paths"
)

type PathKind int

const (
	PathMissing PathKind = iota
	PathDirectory
	PathFile
	PathOther
)

type Action int

const (
	WriteDirect Action = iota
	WriteIntoDirectory
	ConfirmOverwrite
	Skip
)

type Destination struct {
	Action Action
	Path   string
}

// Plan decides where a download named name+ext goes given what is at path.
func Plan(path string, kind PathKind, name, ext string) Destination {
	switch kind {
	case PathMissing:
		return Destination{Action: WriteDirect, Path: path}
	case PathDirectory:
		return Destination{Action: WriteIntoDirectory, Path: filepath.Join(path, name+ext)}
	case PathFile:
		return Destination{Action: ConfirmOverwrite, Path: path}
	}
	return Destination{Action: Skip, Path: path}
}

func kindOf(path string) (PathKind, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return PathMissing, nil
	case err != nil:
		return 0, err
	case info.IsDir():
		return PathDirectory, nil
	case info.Mode().IsRegular():
		return PathFile, nil
	}
	return PathOther, nil
}

// save resolves path and calls fetch with the final file path, asking
// before it overwrites an existing file.
func save(env Env, path, name, ext string, fetch func(dest string) error) error {
	path = paths.Expand(path)
	kind, err := kindOf(path)
	if err != nil {
		return err
	}

	dest := Plan(path, kind, name, ext)
	switch dest.Action {
	case Skip:
		env.Out.Important("Path specified is not a directory or file, skipping...")
		return nil
	case ConfirmOverwrite:
		overwrite, err := env.Prompt.Confirm("File specified already exists, do you want to overwrite it")
		if err != nil {
			return err
		}
		if !overwrite {
			env.Out.Info("Skipping download...")
			return nil
		}
	}

	env.Out.Info("Downloading to %s", dest.Path)
	if err := fetch(dest.Path); err != nil {
		return err
	}
	env.Out.Good("Download to %s successful!", dest.Path)
	return nil
}
