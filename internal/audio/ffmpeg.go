package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// FFmpegConverter implements Converter using the ffmpeg CLI.
type FFmpegConverter struct {
	ffmpegPath string
}

// NewFFmpegConverter creates a new FFmpegConverter.
// If ffmpegPath is empty, it defaults to "ffmpeg" (found in PATH).
func NewFFmpegConverter(ffmpegPath string) *FFmpegConverter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &FFmpegConverter{ffmpegPath: ffmpegPath}
}

// ToWav converts the recording at inputPath to 16 kHz mono PCM wav.
// The output file is written next to the input with a .wav extension and
// the caller owns its cleanup.
func (c *FFmpegConverter) ToWav(ctx context.Context, inputPath string) (string, error) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return "", fmt.Errorf("input file does not exist: %s", inputPath)
	}

	outputPath := wavPath(inputPath)

	cmd := exec.CommandContext(ctx, c.ffmpegPath,
		"-y",
		"-i", inputPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		outputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("audio conversion failed: %w, stderr: %s", err, stderr.String())
	}

	return outputPath, nil
}

// wavPath derives the output path for a converted file. The original
// extension is replaced with .wav; extensionless inputs get .wav appended.
func wavPath(inputPath string) string {
	if idx := strings.LastIndex(inputPath, "."); idx > strings.LastIndex(inputPath, "/") {
		return inputPath[:idx] + ".wav"
	}
	return inputPath + ".wav"
}

// Verify interface implementation at compile time.
var _ Converter = (*FFmpegConverter)(nil)
