package rsvp

// Phase is the playback phase derived from the engine state.
type Phase int

const (
	// PhaseIdle means no advance is scheduled. The index may be anywhere.
	PhaseIdle Phase = iota
	// PhasePlaying means a timer is pending for the current word.
	PhasePlaying
	// PhaseFinished means playback ran past the last word.
	PhaseFinished
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// State is a point-in-time copy of the engine. Words is a private copy of
// the loaded sequence.
type State struct {
	Words       []string
	Index       int
	WPM         int
	SmartPauses bool
	Playing     bool
	Finished    bool
}

// Phase reports which playback phase the snapshot was taken in.
func (s State) Phase() Phase {
	switch {
	case s.Playing:
		return PhasePlaying
	case s.Finished:
		return PhaseFinished
	default:
		return PhaseIdle
	}
}

// Progress describes how far through the text the reader is.
type Progress struct {
	CurrentIndex int
	TotalWords   int
	Percentage   float64
}

func progressOf(index, total int) Progress {
	p := Progress{CurrentIndex: index, TotalWords: total}
	if total > 0 {
		p.Percentage = float64(index) / float64(total) * 100
	}
	return p
}
