// Package artifact reads pipeline artifacts into transportable forms.
package artifact

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kawanbicara/server/domain/entities"
)

// ReadError reports a file that was missing or unreadable.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read artifact %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ParseError reports an artifact that was readable but malformed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse artifact %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReadAudioBase64 reads a binary audio file fully into memory and
// returns it as base64 text.
func ReadAudioBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

// ReadLipSync reads and parses a mouth-cue JSON file.
func ReadLipSync(path string) (*entities.LipSync, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	var lipSync entities.LipSync
	if err := json.Unmarshal(data, &lipSync); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return &lipSync, nil
}
