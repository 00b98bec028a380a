// Package transcribe converts recorded audio answers to text by shelling out
// to whisper-cli, converting compressed formats to 16kHz mono wav with ffmpeg
// first. The caller's context deadline bounds the whole run; on expiry the
// external process is killed.
package transcribe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

type Config struct {
	FFmpegBin  string // default "ffmpeg"
	WhisperBin string // default "whisper-cli"
	ModelPath  string // path to the whisper model file
}

type Whisper struct {
	ffmpeg  string
	whisper string
	model   string
}

func NewWhisper(c Config) *Whisper {
	w := &Whisper{
		ffmpeg:  c.FFmpegBin,
		whisper: c.WhisperBin,
		model:   c.ModelPath,
	}
	if w.ffmpeg == "" {
		w.ffmpeg = "ffmpeg"
	}
	if w.whisper == "" {
		w.whisper = "whisper-cli"
	}
	return w
}

var compressedFormats = map[string]bool{
	".webm": true,
	".ogg":  true,
	".m4a":  true,
	".mp3":  true,
	".opus": true,
}

// Transcribe returns the transcript and a short heuristic feedback line.
func (w *Whisper) Transcribe(ctx context.Context, audioPath, _ string) (string, string, error) {
	wavPath := audioPath

	if compressedFormats[strings.ToLower(filepath.Ext(audioPath))] {
		tmp, err := os.CreateTemp("", "prepdrill-*.wav")
		if err != nil {
			return "", "", fmt.Errorf("transcribe: temp wav: %w", err)
		}
		tmp.Close()
		defer os.Remove(tmp.Name())

		cmd := exec.CommandContext(ctx, w.ffmpeg, "-y", "-i", audioPath, "-ac", "1", "-ar", "16000", tmp.Name())
		if err := cmd.Run(); err != nil {
			return "", "", fmt.Errorf("transcribe: ffmpeg convert: %w", err)
		}
		wavPath = tmp.Name()
	}

	// -nt: no timestamps, -np: no progress; stdout is the bare transcript.
	cmd := exec.CommandContext(ctx, w.whisper,
		"-m", w.model,
		"-f", wavPath,
		"-l", "en",
		"-np", "-nt",
	)
	out, err := cmd.Output()
	if err != nil {
		return "", "", fmt.Errorf("transcribe: whisper: %w", err)
	}

	transcript := strings.TrimSpace(string(out))
	return transcript, BasicFeedback(transcript), nil
}

// BasicFeedback is a quick transcript-level heuristic shown alongside the
// transcript for user review, before real scoring happens on acceptance.
func BasicFeedback(transcript string) string {
	wordCount := len(strings.Fields(transcript))
	lower := strings.ToLower(transcript)

	switch {
	case wordCount < 10:
		return "Try to provide more detailed answers with specific examples."
	case wordCount > 100:
		return "Good detailed response! Try to be more concise while keeping key points."
	case strings.Contains(lower, "experience") || strings.Contains(lower, "project"):
		return "Great job mentioning specific experience! This adds credibility to your answer."
	}
	return "Good response! Keep practicing to improve your interview skills."
}
