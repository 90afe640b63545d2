package main

import (
	"fmt"
	"image"
	"sort"

	"github.com/EdlinOrg/prominentcolor"
)

// accentSampleStep skips pixels when building the colour histogram
const accentSampleStep = 5

// Accent candidates must stay readable on the dark grey background
const (
	accentMinLightness  = 0.3
	accentMaxLightness  = 0.85
	accentMinSaturation = 0.25

	// Above this lightness a colour starts to wash out and scores lower
	accentSoftLightness = 0.7
)

// extractAccentColor picks a vivid, readable colour from a frame for the UI accent.
// Frames with no usable colour fall back to K-means clustering.
func extractAccentColor(img image.Image) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", fmt.Errorf("empty frame")
	}

	b := img.Bounds()
	histogram := make(map[uint32]int)
	for y := b.Min.Y; y < b.Max.Y; y += accentSampleStep {
		for x := b.Min.X; x < b.Max.X; x += accentSampleStep {
			r, g, bl, a := img.At(x, y).RGBA()
			if a < 0x8000 {
				continue
			}
			histogram[uint32(r>>8)<<16|uint32(g>>8)<<8|uint32(bl>>8)]++
		}
	}

	type candidate struct {
		rgb   uint32
		score float64
	}
	var candidates []candidate
	for rgb, count := range histogram {
		if score, ok := accentScore(rgb, count); ok {
			candidates = append(candidates, candidate{rgb: rgb, score: score})
		}
	}

	if len(candidates) == 0 {
		colors, err := prominentcolor.Kmeans(img)
		if err != nil || len(colors) == 0 {
			return "", fmt.Errorf("no suitable colors found")
		}
		c := colors[0].Color
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].rgb < candidates[j].rgb
	})
	return fmt.Sprintf("#%06x", candidates[0].rgb), nil
}

// accentScore rates a colour that covers count samples; ok is false when it
// cannot be used as an accent at all
func accentScore(rgb uint32, count int) (score float64, ok bool) {
	lightness, saturation := lightnessSaturation(rgb)
	switch {
	case lightness < accentMinLightness, lightness > accentMaxLightness:
		return 0, false
	case saturation < accentMinSaturation:
		return 0, false
	}

	lightnessScore := lightness
	if lightness > accentSoftLightness {
		lightnessScore = 2*accentSoftLightness - lightness
	}
	return saturation*2.5 + lightnessScore*1.5 + float64(count)/1000.0, true
}

// lightnessSaturation returns HSL lightness and saturation for a packed 0xRRGGBB colour
func lightnessSaturation(rgb uint32) (float64, float64) {
	r := float64(uint8(rgb>>16)) / 255.0
	g := float64(uint8(rgb>>8)) / 255.0
	b := float64(uint8(rgb)) / 255.0

	hi := max(r, g, b)
	lo := min(r, g, b)
	lightness := (hi + lo) / 2.0

	if hi == lo {
		return lightness, 0
	}
	if lightness > 0.5 {
		return lightness, (hi - lo) / (2.0 - hi - lo)
	}
	return lightness, (hi - lo) / (hi + lo)
}
