package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/sleep-watch/internal/config"
)

// errNotString is returned when a state file key holds a non-string value.
var errNotString = errors.New("value is not a string")

// FileKV persists all keys in one JSON document on disk.
// The document is a protobuf Struct encoded with protojson.
type FileKV struct {
	// path is the filesystem location of the JSON state file.
	path string
	// mu serializes read-modify-write cycles on the file.
	mu sync.Mutex
}

// NewFileKV creates a store that reads and writes JSON at path.
func NewFileKV(path string) *FileKV {
	if path == "" {
		path = config.DefaultStateFilename
	}

	return &FileKV{
		path: filepath.Clean(path),
	}
}

// Get returns the string stored under key.
func (f *FileKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return "", err
	}

	value, ok := doc.GetFields()[key]
	if !ok {
		return "", ErrNotFound
	}

	str, ok := value.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("decode state key %q: %w", key, errNotString)
	}

	return str.StringValue, nil
}

// Set stores value under key and rewrites the file.
func (f *FileKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}

	doc.Fields[key] = structpb.NewStringValue(value)

	return f.write(doc)
}

// Delete removes key and rewrites the file when something changed.
func (f *FileKV) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}

	if _, ok := doc.Fields[key]; !ok {
		return nil
	}

	delete(doc.Fields, key)

	return f.write(doc)
}

// Close is a no-op.
func (f *FileKV) Close() error {
	return nil
}

// read loads the document; a missing file is an empty document.
func (f *FileKV) read() (*structpb.Struct, error) {
	doc := &structpb.Struct{Fields: make(map[string]*structpb.Value)}

	contents, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}

		return nil, fmt.Errorf("read state file: %w", err)
	}

	if err = protojson.Unmarshal(contents, doc); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	if doc.Fields == nil {
		doc.Fields = make(map[string]*structpb.Value)
	}

	return doc, nil
}

// write replaces the file with doc.
func (f *FileKV) write(doc *structpb.Struct) error {
	marshalOptions := protojson.MarshalOptions{
		Multiline: true,
	}

	data, err := marshalOptions.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if err = os.WriteFile(f.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	return nil
}
