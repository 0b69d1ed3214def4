package rsvp

import "testing"

func TestFixationIndex(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"", 0},
		{"I", 0},
		{"a", 0},
		{"to", 0},
		{"the", 1},
		{"word", 1},
		{"hello", 1},
		{"reading", 2},
		{"something", 3},
		{"programming", 4},
		{"understanding", 5},
		{"naïveté", 2},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := FixationIndex(tt.word); got != tt.want {
				t.Errorf("FixationIndex(%q) = %d, want %d", tt.word, got, tt.want)
			}
		})
	}
}

func TestFixationIndexFollowsRule(t *testing.T) {
	for n := 0; n <= 30; n++ {
		word := make([]rune, n)
		for i := range word {
			word[i] = 'x'
		}

		want := n / 3
		switch {
		case n <= 1:
			want = 0
		case n > 9:
			want = n/3 + 1
		}

		if got := FixationIndex(string(word)); got != want {
			t.Errorf("length %d: got %d, want %d", n, got, want)
		}
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		word                  string
		left, fixation, right string
		index                 int
	}{
		{"the", "t", "h", "e", 1},
		{"I", "", "I", "", 0},
		{"programming", "prog", "r", "amming", 4},
		{"world!", "wo", "r", "ld!", 2},
		{"café", "c", "a", "fé", 1},
		{"", "", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			d := Display(tt.word)
			if d.Word != tt.word {
				t.Errorf("Word = %q, want %q", d.Word, tt.word)
			}
			if d.Left != tt.left || d.Fixation != tt.fixation || d.Right != tt.right {
				t.Errorf("Display(%q) = %q|%q|%q, want %q|%q|%q",
					tt.word, d.Left, d.Fixation, d.Right, tt.left, tt.fixation, tt.right)
			}
			if d.FixationIndex != tt.index {
				t.Errorf("FixationIndex = %d, want %d", d.FixationIndex, tt.index)
			}
			if d.Left+d.Fixation+d.Right != tt.word {
				t.Errorf("parts do not reassemble %q", tt.word)
			}
		})
	}
}
