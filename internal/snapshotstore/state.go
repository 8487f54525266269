package snapshotstore

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/johannesbuchholz/copysnap/internal/core"
)

// serializedState is the on-disk, YAML-encoded form of a core.FileSystemState.
// core.FileSystemState itself exposes no serialization (spec.md §1 scopes
// persistence out of the core); this is the persistence this package
// supplies around it.
type serializedState struct {
	Location string           `yaml:"location"`
	Files    []serializedFile `yaml:"files"`
}

type serializedFile struct {
	RelPath      string    `yaml:"rel_path"`
	LastModified time.Time `yaml:"last_modified"`
	Checksum     string    `yaml:"checksum"`
}

func encodeState(state core.FileSystemState) serializedState {
	files := make([]serializedFile, 0, state.Len())
	state.Range(func(fs core.FileState) {
		files = append(files, serializedFile{
			RelPath:      string(fs.RelPath()),
			LastModified: fs.LastModified(),
			Checksum:     hex.EncodeToString(fs.Checksum()),
		})
	})
	return serializedState{Location: state.Location(), Files: files}
}

func decodeState(s serializedState) (core.FileSystemState, error) {
	builder := core.NewFileSystemStateBuilder(s.Location)
	for _, f := range s.Files {
		checksum, err := hex.DecodeString(f.Checksum)
		if err != nil {
			return core.FileSystemState{}, fmt.Errorf("decode checksum for %q: %w", f.RelPath, err)
		}
		builder.Add(core.NewFileState(core.RelativePath(f.RelPath), f.LastModified, core.Checksum(checksum)))
	}
	return builder.Build(), nil
}

func writeState(path string, state core.FileSystemState) error {
	data, err := yaml.Marshal(encodeState(state))
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

func readState(path string) (core.FileSystemState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.FileSystemState{}, fmt.Errorf("read %q: %w", path, err)
	}
	var s serializedState
	if err := yaml.Unmarshal(data, &s); err != nil {
		return core.FileSystemState{}, fmt.Errorf("unmarshal %q: %w", path, err)
	}
	return decodeState(s)
}
