package lipsync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
)

// stubRunner records invocations and writes canned output files in
// place of the real binaries.
type stubRunner struct {
	calls       [][]string
	ffmpegErr   error
	rhubarbErr  error
	rhubarbJSON string
}

func (s *stubRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	s.calls = append(s.calls, append([]string{name}, args...))

	switch name {
	case "ffmpeg":
		if s.ffmpegErr != nil {
			return "", s.ffmpegErr
		}
		// args: -y -i <in> <out>
		return "", os.WriteFile(args[len(args)-1], []byte("RIFF"), 0o644)
	case "rhubarb":
		if s.rhubarbErr != nil {
			return "", s.rhubarbErr
		}
		// args: -f json -o <out> <in> -r phonetic
		return "", os.WriteFile(args[3], []byte(s.rhubarbJSON), 0o644)
	}

	return "", nil
}

const validCueJSON = `{"metadata":{"soundFile":"a.wav","duration":1.2},"mouthCues":[{"start":0,"end":0.5,"value":"A"},{"start":0.5,"end":1.2,"value":"X"}]}`

func TestExtractSuccess(t *testing.T) {
	dir := t.TempDir()
	stub := &stubRunner{rhubarbJSON: validCueJSON}
	extractor := NewExtractor(stub, "ffmpeg", "rhubarb", 2, zaptest.NewLogger(t))

	audioPath := filepath.Join(dir, "message_1.mp3")
	destPath := filepath.Join(dir, "message_1.json")

	if err := extractor.Extract(context.Background(), audioPath, destPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stub.calls) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(stub.calls))
	}

	ffmpegCall := stub.calls[0]
	if ffmpegCall[0] != "ffmpeg" || ffmpegCall[len(ffmpegCall)-1] != filepath.Join(dir, "message_1.wav") {
		t.Errorf("unexpected ffmpeg call: %v", ffmpegCall)
	}

	rhubarbCall := stub.calls[1]
	want := []string{"rhubarb", "-f", "json", "-o", destPath, filepath.Join(dir, "message_1.wav"), "-r", "phonetic"}
	if len(rhubarbCall) != len(want) {
		t.Fatalf("unexpected rhubarb call: %v", rhubarbCall)
	}
	for i := range want {
		if rhubarbCall[i] != want[i] {
			t.Errorf("rhubarb arg %d: got %q, want %q", i, rhubarbCall[i], want[i])
		}
	}
}

func TestExtractInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	stub := &stubRunner{rhubarbJSON: "not json at all"}
	extractor := NewExtractor(stub, "ffmpeg", "rhubarb", 2, zaptest.NewLogger(t))

	err := extractor.Extract(context.Background(),
		filepath.Join(dir, "message_2.mp3"),
		filepath.Join(dir, "message_2.json"))
	if err == nil {
		t.Fatal("expected error for unparseable analyzer output")
	}

	// Both processes "succeeded", so this must be the validation error.
	if !errors.Is(err, ErrInvalidData) {
		t.Errorf("expected ErrInvalidData, got %v", err)
	}
}

func TestExtractTranscodeFailureSkipsAnalyzer(t *testing.T) {
	dir := t.TempDir()
	stub := &stubRunner{ffmpegErr: errors.New("exit status 1")}
	extractor := NewExtractor(stub, "ffmpeg", "rhubarb", 2, zaptest.NewLogger(t))

	err := extractor.Extract(context.Background(),
		filepath.Join(dir, "message_3.mp3"),
		filepath.Join(dir, "message_3.json"))
	if err == nil {
		t.Fatal("expected error when transcode fails")
	}

	if len(stub.calls) != 1 {
		t.Errorf("analyzer must not run after a failed transcode, got %d calls", len(stub.calls))
	}
}

func TestExtractCancelledWhileWaiting(t *testing.T) {
	stub := &stubRunner{rhubarbJSON: validCueJSON}
	extractor := NewExtractor(stub, "ffmpeg", "rhubarb", 1, zaptest.NewLogger(t))

	// Occupy the only slot.
	if err := extractor.sem.Acquire(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer extractor.sem.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := extractor.Extract(ctx, "a.mp3", "a.json")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	if len(stub.calls) != 0 {
		t.Errorf("no process should spawn for a cancelled request")
	}
}
