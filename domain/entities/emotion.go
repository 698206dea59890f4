package entities

import "strings"

// Emotion is a coarse classification of the reply text, driving which
// facial expression and animation the client plays during playback.
type Emotion string

const (
	EmotionSmile     Emotion = "smile"
	EmotionSad       Emotion = "sad"
	EmotionSurprised Emotion = "surprised"
	EmotionAngry     Emotion = "angry"
	EmotionDefault   Emotion = "default"
)

// keywordGroup maps a set of reply-text keywords to an emotion.
// Groups are evaluated in order, first match wins.
type keywordGroup struct {
	emotion  Emotion
	keywords []string
}

// Positive words first, then sadness/apology, surprise, worry (read as
// sadness), and anger. Keywords are matched case-insensitively as
// substrings of the reply text.
var keywordGroups = []keywordGroup{
	{EmotionSmile, []string{"senang", "bahagia", "bagus", "hebat", "terima kasih", "semangat", "happy", "great"}},
	{EmotionSad, []string{"sedih", "maaf", "menyesal", "kecewa", "kehilangan", "sorry", "sad"}},
	{EmotionSurprised, []string{"wow", "luar biasa", "kaget", "tidak menyangka", "amazing"}},
	{EmotionSad, []string{"khawatir", "cemas", "takut", "gelisah", "worried", "afraid"}},
	{EmotionAngry, []string{"marah", "kesal", "benci", "angry"}},
}

// ClassifyEmotion derives an emotion tag from reply text by keyword
// presence. It is deterministic and returns EmotionDefault when no
// group matches.
func ClassifyEmotion(text string) Emotion {
	lower := strings.ToLower(text)
	for _, group := range keywordGroups {
		for _, keyword := range group.keywords {
			if strings.Contains(lower, keyword) {
				return group.emotion
			}
		}
	}

	return EmotionDefault
}

var animations = map[Emotion]string{
	EmotionSmile:     "Laughing",
	EmotionSad:       "Crying",
	EmotionSurprised: "Laughing",
	EmotionAngry:     "Angry",
	EmotionDefault:   "Talking_1",
}

// AnimationFor maps an emotion tag to its animation identifier. The
// mapping is total over the emotion set; unknown values fall back to
// the default talking animation.
func AnimationFor(emotion Emotion) string {
	if animation, ok := animations[emotion]; ok {
		return animation
	}

	return animations[EmotionDefault]
}
