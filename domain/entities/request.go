package entities

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// RequestContext identifies one in-flight pipeline run. It is owned by
// the orchestrator for the lifetime of a single HTTP call and is never
// persisted beyond the deferred-cleanup window.
type RequestContext struct {
	ID        string
	Message   string
	CreatedAt time.Time
}

// NewRequestContext creates a request context with a collision-improbable
// identifier: millisecond timestamp plus a random suffix. The identifier
// namespaces every temporary file the request produces.
func NewRequestContext(message string) *RequestContext {
	now := time.Now()
	id := fmt.Sprintf("%d_%s", now.UnixMilli(), uuid.NewString()[:8])

	return &RequestContext{
		ID:        id,
		Message:   message,
		CreatedAt: now,
	}
}

// ArtifactSet holds the three temporary file paths derived from a
// request identifier. Distinct identifiers never produce colliding
// paths, so concurrent requests do not contend on the filesystem.
type ArtifactSet struct {
	AudioPath   string
	WavePath    string
	LipSyncPath string
}

// NewArtifactSet derives the artifact paths for a request identifier
// under the shared temporary directory.
func NewArtifactSet(dir, requestID string) ArtifactSet {
	base := filepath.Join(dir, "message_"+requestID)

	return ArtifactSet{
		AudioPath:   base + ".mp3",
		WavePath:    base + ".wav",
		LipSyncPath: base + ".json",
	}
}

// Paths returns every path in the set, for scheduling cleanup.
func (a ArtifactSet) Paths() []string {
	return []string{a.AudioPath, a.WavePath, a.LipSyncPath}
}
