package entities

// MouthCue is a single timed mouth-shape cue, matching the JSON the
// phoneme analyzer emits.
type MouthCue struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Value string  `json:"value"`
}

// LipSyncMetadata describes the analyzed sound file.
type LipSyncMetadata struct {
	SoundFile string  `json:"soundFile"`
	Duration  float64 `json:"duration"`
}

// LipSync is the full analyzer output: an ordered sequence of mouth
// cues used to drive facial animation in sync with audio playback.
type LipSync struct {
	Metadata  LipSyncMetadata `json:"metadata"`
	MouthCues []MouthCue      `json:"mouthCues"`
}
