// Package chime plays a short audible cue when something goes wrong.
package chime

import (
	"encoding/binary"
	"math"
	"time"
)

const (
	// SampleRate is the PCM sample rate used for every tone.
	SampleRate = 22050
	// ChannelCount is mono.
	ChannelCount = 1
)

// Note is one tone in a cue.
type Note struct {
	Freq     float64 // Hz, 0 for silence
	Duration time.Duration
}

// ErrorCue is the two-note falling cue played on urgent notifications.
var ErrorCue = []Note{
	{Freq: 660, Duration: 90 * time.Millisecond},
	{Duration: 30 * time.Millisecond},
	{Freq: 440, Duration: 140 * time.Millisecond},
}

// Synth renders notes as signed 16-bit little-endian mono PCM. Each
// tone fades in and out over a few milliseconds so it doesn't click.
func Synth(notes []Note, volume float64) []byte {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	var total int
	for _, n := range notes {
		total += samples(n.Duration)
	}
	pcm := make([]byte, 0, total*2)

	fade := samples(5 * time.Millisecond)
	for _, n := range notes {
		count := samples(n.Duration)
		for i := 0; i < count; i++ {
			var v float64
			if n.Freq > 0 {
				v = math.Sin(2 * math.Pi * n.Freq * float64(i) / SampleRate)
				env := 1.0
				if i < fade {
					env = float64(i) / float64(fade)
				} else if tail := count - i; tail < fade {
					env = float64(tail) / float64(fade)
				}
				v *= env * volume
			}
			pcm = binary.LittleEndian.AppendUint16(pcm, uint16(int16(v*math.MaxInt16)))
		}
	}
	return pcm
}

func samples(d time.Duration) int {
	return int(d.Seconds() * SampleRate)
}
