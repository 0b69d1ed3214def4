package rsvp

import (
	"math"
	"testing"
	"time"
)

func TestClampWPM(t *testing.T) {
	tests := []struct{ in, want int }{
		{50, 100},
		{100, 100},
		{300, 300},
		{800, 800},
		{1000, 800},
		{-5, 100},
	}
	for _, tt := range tests {
		if got := ClampWPM(tt.in); got != tt.want {
			t.Errorf("ClampWPM(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBaseDelay(t *testing.T) {
	tests := []struct {
		wpm  int
		want time.Duration
	}{
		{300, 200 * time.Millisecond},
		{100, 600 * time.Millisecond},
		{600, 100 * time.Millisecond},
		{800, 75 * time.Millisecond},
		{5000, 75 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := BaseDelay(tt.wpm); got != tt.want {
			t.Errorf("BaseDelay(%d) = %v, want %v", tt.wpm, got, tt.want)
		}
	}
}

func TestDelayMultiplier(t *testing.T) {
	tests := []struct {
		name string
		word string
		want float64
	}{
		{"plain short word", "test", 1.0},
		{"sentence end", "test.", 1.5},
		{"exclamation", "wow!", 1.5},
		{"question", "why?", 1.5},
		{"comma", "test,", 1.25},
		{"semicolon", "test;", 1.25},
		{"colon", "test:", 1.25},
		{"closing quote", `said"`, 1.15},
		{"closing apostrophe", "dogs'", 1.15},
		{"closing paren", "(aside)", 1.3},
		{"medium word", "reading", 1.15},
		{"eight runes is medium", "elephant", 1.15},
		{"long word", "programming", 1.3},
		{"long word with period", "programming.", 1.8},
		{"embedded newline", "end\nnext", 1.45},
		{"everything stacks", "wonder\nful.", 2.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DelayMultiplier(tt.word)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DelayMultiplier(%q) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}

func TestWordDelay(t *testing.T) {
	tests := []struct {
		name        string
		word        string
		wpm         int
		smartPauses bool
		want        time.Duration
	}{
		{"base at 300", "test", 300, true, 200 * time.Millisecond},
		{"period at 300", "test.", 300, true, 300 * time.Millisecond},
		{"comma at 300", "test,", 300, true, 250 * time.Millisecond},
		{"medium word at 300", "reading", 300, true, 230 * time.Millisecond},
		{"period without smart pauses", "test.", 300, false, 200 * time.Millisecond},
		{"long word without smart pauses", "verylongword", 300, false, 200 * time.Millisecond},
		{"period at 600", "end.", 600, true, 150 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WordDelay(tt.word, tt.wpm, tt.smartPauses); got != tt.want {
				t.Errorf("WordDelay(%q, %d, %v) = %v, want %v",
					tt.word, tt.wpm, tt.smartPauses, got, tt.want)
			}
		})
	}
}

func TestWordDelayStackedMultipliers(t *testing.T) {
	got := WordDelay("wonder\nful.", 300, true)
	want := 420 * time.Millisecond
	if diff := got - want; diff < -time.Microsecond || diff > time.Microsecond {
		t.Errorf("WordDelay = %v, want about %v", got, want)
	}
}
