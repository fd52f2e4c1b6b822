// Package video collects rendered frames into an output artifact:
// either a directory of numbered PNGs or an ffmpeg-muxed MP4.
package video

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// Sink receives encoded PNG frames in presentation order.
type Sink interface {
	WriteFrame(png []byte) error
	Close() error
}

// FrameDir writes frames as frame_000000.png, frame_000001.png, ...
// into a directory.
type FrameDir struct {
	dir string
	n   int
}

// NewFrameDir creates the directory if needed.
func NewFrameDir(dir string) (*FrameDir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create frame directory: %w", err)
	}
	return &FrameDir{dir: dir}, nil
}

func (f *FrameDir) WriteFrame(png []byte) error {
	path := filepath.Join(f.dir, fmt.Sprintf("frame_%06d.png", f.n))
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("write frame %d: %w", f.n, err)
	}
	f.n++
	return nil
}

func (f *FrameDir) Close() error { return nil }

// Frames returns how many frames were written.
func (f *FrameDir) Frames() int { return f.n }

// FFmpeg pipes PNG frames into an ffmpeg process that muxes them into
// an MP4 file.
type FFmpeg struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	out    string
}

// NewFFmpeg starts the ffmpeg process. It fails up front when the
// ffmpeg binary is not on PATH.
func NewFFmpeg(ctx context.Context, out string, fps int) (*FFmpeg, error) {
	bin, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found on PATH (install it or render to a frame directory): %w", err)
	}

	cmd := exec.CommandContext(ctx, bin,
		"-y",
		"-f", "image2pipe",
		"-framerate", fmt.Sprint(fps),
		"-i", "-",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		out,
	)
	sink := &FFmpeg{cmd: cmd, out: out}
	cmd.Stderr = &sink.stderr
	slog.Info("starting ffmpeg", "binary", bin, "output", out, "fps", fps)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin: %w", err)
	}
	sink.stdin = stdin

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	return sink, nil
}

func (f *FFmpeg) WriteFrame(png []byte) error {
	if _, err := f.stdin.Write(png); err != nil {
		return fmt.Errorf("pipe frame to ffmpeg: %w", err)
	}
	return nil
}

// Close finishes the stream and waits for ffmpeg to write the file.
func (f *FFmpeg) Close() error {
	if err := f.stdin.Close(); err != nil {
		return fmt.Errorf("close ffmpeg stdin: %w", err)
	}
	if err := f.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w\n%s", err, f.stderr.String())
	}
	return nil
}

// Discard counts frames and drops them. Used in tests and dry runs.
type Discard struct {
	N int
}

func (d *Discard) WriteFrame(png []byte) error {
	d.N++
	return nil
}

func (d *Discard) Close() error { return nil }
