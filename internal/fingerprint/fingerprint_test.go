package fingerprint

import "testing"

func TestBytesDeterministic(t *testing.T) {
	payload := []byte("Jane Doe, Software Engineer")
	if Bytes(payload) != Bytes([]byte("Jane Doe, Software Engineer")) {
		t.Error("identical payloads produced different fingerprints")
	}
}

func TestBytesNearDuplicates(t *testing.T) {
	cases := [][2]string{
		{"Jane Doe, Software Engineer", "Jane Doe, Software Engineer "},
		{"resume", "Resume"},
		{"", "\x00"},
		{"a", "b"},
	}
	for _, c := range cases {
		if Bytes([]byte(c[0])) == Bytes([]byte(c[1])) {
			t.Errorf("distinct payloads %q and %q collided", c[0], c[1])
		}
	}
}

func TestTextMatchesBytes(t *testing.T) {
	if Text("hello") != Bytes([]byte("hello")) {
		t.Error("Text and Bytes disagree for identical content")
	}
}
