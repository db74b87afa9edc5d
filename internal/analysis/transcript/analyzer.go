package transcript

import "strings"

// maxSpeakerLen filters out "Speaker:" prefixes that are clearly sentence
// fragments rather than names.
const maxSpeakerLen = 50

// Info summarizes an uploaded transcript for session metadata.
type Info struct {
	Participants []string `json:"participants"`
	Lines        int      `json:"lines"`
	Length       int      `json:"length"`
}

// Analyze extracts basic structure from a "Speaker: utterance" transcript.
// Participants are reported in order of first appearance.
func Analyze(text string) Info {
	lines := strings.Split(text, "\n")

	seen := make(map[string]struct{})
	participants := make([]string, 0, 8)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}

		speaker := strings.TrimSpace(line[:idx])
		if speaker == "" || len(speaker) >= maxSpeakerLen {
			continue
		}
		if _, ok := seen[speaker]; ok {
			continue
		}
		seen[speaker] = struct{}{}
		participants = append(participants, speaker)
	}

	return Info{
		Participants: participants,
		Lines:        len(lines),
		Length:       len(text),
	}
}
