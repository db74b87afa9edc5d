package transcript

import "testing"

func TestAnalyzeExtractsParticipants(t *testing.T) {
	info := Analyze("Alice: Hello everyone\nBob: Hi Alice\nAlice: Shall we start?\n")

	if len(info.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %v", info.Participants)
	}
	if info.Participants[0] != "Alice" || info.Participants[1] != "Bob" {
		t.Fatalf("unexpected participant order: %v", info.Participants)
	}
}

func TestAnalyzeSkipsNonSpeakerLines(t *testing.T) {
	info := Analyze("Meeting notes\nAlice: Hello\n\n- action item\nBob: Bye")

	if len(info.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %v", info.Participants)
	}
	if info.Lines != 5 {
		t.Fatalf("expected 5 lines, got %d", info.Lines)
	}
}

func TestAnalyzeIgnoresOverlongSpeakerPrefix(t *testing.T) {
	long := "This whole sentence just happens to contain a colon somewhere far in"
	info := Analyze(long + ": trailing")

	if len(info.Participants) != 0 {
		t.Fatalf("expected no participants, got %v", info.Participants)
	}
}

func TestAnalyzeEmptyTranscript(t *testing.T) {
	info := Analyze("")
	if len(info.Participants) != 0 {
		t.Fatalf("expected no participants, got %v", info.Participants)
	}
	if info.Length != 0 {
		t.Fatalf("expected zero length, got %d", info.Length)
	}
}
