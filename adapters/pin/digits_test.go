package pin

import "testing"

func TestDigitsFromTranscript(t *testing.T) {
	cases := []struct {
		name       string
		transcript string
		want       string
	}{
		{"literal digits", "1234", "1234"},
		{"spaced digits", "1 2 3 4", "1234"},
		{"english words", "one two three four", "1234"},
		{"mixed words and digits", "one 2 three 4", "1234"},
		{"oh as zero", "oh seven oh seven", "0707"},
		{"indonesian words", "satu dua tiga empat", "1234"},
		{"indonesian zero variants", "nol kosong", "00"},
		{"punctuation ignored", "1, 2. 3! 4?", "1234"},
		{"case insensitive", "One TWO Three", "123"},
		{"filler words dropped", "my pin is 9 8 7 6 thanks", "9876"},
		{"no digits", "hello world", ""},
		{"empty transcript", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DigitsFromTranscript(tc.transcript); got != tc.want {
				t.Errorf("DigitsFromTranscript(%q) = %q, want %q", tc.transcript, got, tc.want)
			}
		})
	}
}
