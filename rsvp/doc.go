// Package rsvp implements the presentation engine of a Rapid Serial Visual
// Presentation reader: it splits text into words, works out where the eye
// should fixate inside each word and for how long each word stays on screen,
// and drives a cancellable timed playback that observers can follow through
// events.
//
// An Engine is owned by whichever front-end mounts it. There is no shared
// instance; construct one per reading surface and Destroy it when done.
package rsvp
