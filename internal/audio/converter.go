// Package audio provides conversion of uploaded recordings into the wav
// format the transcription service performs best on.
package audio

import "context"

// Converter defines the interface for audio format conversion.
type Converter interface {
	// ToWav converts the recording at inputPath to 16 kHz mono PCM wav and
	// returns the path of the converted file.
	ToWav(ctx context.Context, inputPath string) (string, error)
}
