package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ffmpegOpener opens sources by streaming raw BGR24 frames out of an ffmpeg process
type ffmpegOpener struct {
	ffmpegPath  string
	ffprobePath string
}

// NewFFmpegOpener creates an opener; empty paths mean "search the system"
func NewFFmpegOpener(ffmpegPath, ffprobePath string) SourceOpener {
	return &ffmpegOpener{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// findTool locates an ffmpeg-suite binary: custom path first, then PATH, then common locations
func findTool(name, customPath string) (string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return customPath, nil
		}
		return "", fmt.Errorf("%s: custom path %s not found", name, customPath)
	}

	execName := name
	if runtime.GOOS == "windows" {
		execName = name + ".exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	var commonPaths []string
	if runtime.GOOS == "windows" {
		commonPaths = []string{
			`C:\ffmpeg\bin\` + execName,
			`C:\Program Files\ffmpeg\bin\` + execName,
		}
	} else {
		commonPaths = []string{
			"/usr/bin/" + name,
			"/usr/local/bin/" + name,
			"/opt/homebrew/bin/" + name,
			"/snap/bin/" + name,
		}
	}
	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%s not found", name)
}

func (o *ffmpegOpener) Open(path string) (Source, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no file selected", ErrSourceOpen)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceOpen, err)
	}

	info, err := probeVideo(path, o.ffprobePath)
	if err != nil {
		return nil, fmt.Errorf("%w: probe %s: %w", ErrSourceOpen, path, err)
	}

	bin, err := findTool("ffmpeg", o.ffmpegPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceOpen, err)
	}

	stderr := &tailBuffer{limit: stderrTailLimit}
	cmd := exec.Command(bin, ffmpegArgs(path, info)...)
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %w", ErrSourceOpen, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start ffmpeg: %w", ErrSourceOpen, err)
	}

	wait := func() error {
		return ffmpegExitError(cmd.Wait(), stderr.String())
	}
	return newPipeSource(info, stdout, cmd.Process.Kill, wait), nil
}

// ffmpegExitError reports how ffmpeg ended. Being killed is how every source is
// closed, so only an exit ffmpeg chose itself counts as a failure.
func ffmpegExitError(err error, stderr string) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == -1 {
		return nil
	}
	return fmt.Errorf("ffmpeg: %w\nstderr: %s", err, strings.TrimSpace(stderr))
}

// Enough for ffmpeg's last few error lines
const stderrTailLimit = 4096

// tailBuffer keeps the last limit bytes written to it
type tailBuffer struct {
	limit int
	buf   []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = append(b.buf[:0], b.buf[over:]...)
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	return string(b.buf)
}

// ffmpegArgs builds the decode command line. Output geometry is pinned to the
// probed size: ffmpeg would otherwise rotate by the display matrix and change
// the row stride the reader slices frames with.
func ffmpegArgs(path string, info VideoInfo) []string {
	return []string{
		"-v", "error",
		"-nostdin",
		"-noautorotate",
		"-i", path,
		"-an",
		"-vf", fmt.Sprintf("scale=%d:%d", info.Width, info.Height),
		"-f", "rawvideo",
		"-pix_fmt", "bgr24",
		"-",
	}
}

// pipeSource reads fixed-size raw frames from a byte stream
type pipeSource struct {
	info     VideoInfo
	reader   *bufio.Reader
	stream   io.Closer
	kill     func() error
	wait     func() error
	position int
	closed   bool
}

func newPipeSource(info VideoInfo, stream io.ReadCloser, kill, wait func() error) *pipeSource {
	return &pipeSource{
		info:   info,
		reader: bufio.NewReaderSize(stream, info.Width*info.Height*3),
		stream: stream,
		kill:   kill,
		wait:   wait,
	}
}

func (s *pipeSource) FrameCount() int { return s.info.FrameCount }

func (s *pipeSource) Position() int { return s.position }

func (s *pipeSource) Read() (Frame, error) {
	if s.closed {
		return Frame{}, ErrStreamExhausted
	}

	pix := make([]byte, s.info.Width*s.info.Height*3)
	if _, err := io.ReadFull(s.reader, pix); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, ErrStreamExhausted
		}
		return Frame{}, fmt.Errorf("read frame %d: %w", s.position, err)
	}

	s.position++
	return Frame{Width: s.info.Width, Height: s.info.Height, Pix: pix}, nil
}

func (s *pipeSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	// ffmpeg may still be writing; kill before reaping so Wait cannot block
	if s.kill != nil {
		_ = s.kill()
	}
	_ = s.stream.Close()
	if s.wait != nil {
		return s.wait()
	}
	return nil
}
