package main

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Eyevinn/mp4ff/mp4"
)

// VideoInfo describes the video stream of a file
type VideoInfo struct {
	Width      int
	Height     int
	FrameRate  float64
	FrameCount int
}

func (vi VideoInfo) validate() error {
	if vi.Width <= 0 || vi.Height <= 0 {
		return fmt.Errorf("invalid video dimensions %dx%d", vi.Width, vi.Height)
	}
	if vi.FrameCount < 0 {
		return fmt.Errorf("invalid frame count %d", vi.FrameCount)
	}
	return nil
}

// probeVideo reads stream information, parsing MP4 containers directly
// and falling back to ffprobe for everything else
func probeVideo(path, ffprobePath string) (VideoInfo, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".m4v", ".mov":
		if info, err := probeMP4(path); err == nil {
			return info, nil
		}
	}
	return probeFFprobe(path, ffprobePath)
}

func probeMP4(path string) (VideoInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return VideoInfo{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	// Only moov is needed; lazy mode seeks past mdat instead of buffering it
	mp4File, err := mp4.DecodeFile(f, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return VideoInfo{}, fmt.Errorf("decode mp4: %w", err)
	}

	// Fragmented files spread samples across moofs; ffprobe counts those for us
	if mp4File.IsFragmented() || mp4File.Moov == nil {
		return VideoInfo{}, fmt.Errorf("no progressive moov box")
	}

	for _, trak := range mp4File.Moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
			continue
		}
		if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
			return VideoInfo{}, fmt.Errorf("no sample table found")
		}
		stbl := trak.Mdia.Minf.Stbl

		var info VideoInfo
		if stbl.Stsd != nil {
			for _, child := range stbl.Stsd.Children {
				if vse, ok := child.(*mp4.VisualSampleEntryBox); ok {
					info.Width = int(vse.Width)
					info.Height = int(vse.Height)
					break
				}
			}
		}
		if stbl.Stsz != nil {
			info.FrameCount = int(stbl.Stsz.SampleNumber)
		}
		if stbl.Stts != nil && trak.Mdia.Mdhd != nil {
			info.FrameRate = frameRateFromStts(trak.Mdia.Mdhd.Timescale, stbl.Stts.SampleCount, stbl.Stts.SampleTimeDelta)
		}

		if err := info.validate(); err != nil {
			return VideoInfo{}, err
		}
		return info, nil
	}

	return VideoInfo{}, fmt.Errorf("no video track found")
}

// frameRateFromStts derives the average frame rate from time-to-sample runs
func frameRateFromStts(timescale uint32, counts, deltas []uint32) float64 {
	if timescale == 0 || len(counts) != len(deltas) {
		return 0
	}
	var samples, ticks uint64
	for i := range counts {
		samples += uint64(counts[i])
		ticks += uint64(counts[i]) * uint64(deltas[i])
	}
	if ticks == 0 {
		return 0
	}
	return float64(samples) * float64(timescale) / float64(ticks)
}

func probeFFprobe(path, ffprobePath string) (VideoInfo, error) {
	bin, err := findTool("ffprobe", ffprobePath)
	if err != nil {
		return VideoInfo{}, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(bin,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,nb_frames,duration",
		"-of", "default=noprint_wrappers=1",
		path,
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return VideoInfo{}, fmt.Errorf("ffprobe failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return parseFFprobeOutput(stdout.String())
}

// parseFFprobeOutput parses key=value lines from ffprobe's default writer
func parseFFprobeOutput(out string) (VideoInfo, error) {
	fields := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		if _, seen := fields[key]; !seen {
			fields[key] = value
		}
	}
	if len(fields) == 0 {
		return VideoInfo{}, fmt.Errorf("no video stream in ffprobe output")
	}

	var info VideoInfo
	info.Width, _ = strconv.Atoi(fields["width"])
	info.Height, _ = strconv.Atoi(fields["height"])
	info.FrameRate = parseRational(fields["r_frame_rate"])

	if n, err := strconv.Atoi(fields["nb_frames"]); err == nil {
		info.FrameCount = n
	} else if d, err := strconv.ParseFloat(fields["duration"], 64); err == nil && info.FrameRate > 0 {
		// Containers like AVI often omit nb_frames
		info.FrameCount = int(math.Round(d * info.FrameRate))
	}

	if err := info.validate(); err != nil {
		return VideoInfo{}, err
	}
	return info, nil
}

// parseRational parses "30000/1001" or "25" into a float, returning 0 when invalid
func parseRational(s string) float64 {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
