// Package media inspects uploaded audio assets.
package media

import (
	"fmt"
	"io"
	"strings"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// CanProbe reports whether Duration understands the file, by extension.
func CanProbe(fileName string) bool {
	return strings.HasSuffix(strings.ToLower(fileName), ".mp3")
}

// Duration returns the play length in seconds of an MP3 stream.
// go-mp3 decodes to 16-bit stereo, so the decoded length is 4 bytes per
// sample frame.
func Duration(r io.Reader) (float64, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return 0, fmt.Errorf("decode mp3: %w", err)
	}
	samples := dec.Length() / 4
	return float64(samples) / float64(dec.SampleRate()), nil
}
