package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Scaler names accepted in render.scaler
const (
	scalerLanczos  = "lanczos"
	scalerBilinear = "bilinear"
	scalerApprox   = "approx"
	scalerNearest  = "nearest"
)

// bgrToRGBA converts a BGR24 frame into an opaque RGBA image
func bgrToRGBA(f Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	n := f.Width * f.Height
	if len(f.Pix) < n*3 {
		n = len(f.Pix) / 3
	}
	for i := 0; i < n; i++ {
		src := f.Pix[i*3 : i*3+3]
		dst := img.Pix[i*4 : i*4+4]
		dst[0] = src[2]
		dst[1] = src[1]
		dst[2] = src[0]
		dst[3] = 0xff
	}
	return img
}

// scaleImage resizes img to exactly width x height, ignoring aspect ratio
func scaleImage(img image.Image, width, height int, scaler string) image.Image {
	if width <= 0 || height <= 0 {
		// Nothing laid out yet
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	switch scaler {
	case scalerBilinear:
		return resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	case scalerApprox, scalerNearest:
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		var interp draw.Interpolator = draw.NearestNeighbor
		if scaler == scalerApprox {
			interp = draw.ApproxBiLinear
		}
		interp.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		return dst
	default:
		return resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
	}
}

// encodeHalfBlocks renders an image with the upper-half-block glyph, two pixels per cell
func encodeHalfBlocks(img image.Image) string {
	b := img.Bounds()
	var out strings.Builder
	out.Grow(b.Dx() * ((b.Dy() + 1) / 2) * 40)

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			out.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			tr, tg, tb := rgb8(img, x, y)
			if y+1 < b.Max.Y {
				br, bg, bb := rgb8(img, x, y+1)
				fmt.Fprintf(&out, "\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm▀", tr, tg, tb, br, bg, bb)
			} else {
				// Odd height: last row has no lower pixel
				fmt.Fprintf(&out, "\033[38;2;%d;%d;%dm\033[49m▀", tr, tg, tb)
			}
		}
		out.WriteString("\033[0m")
	}
	return out.String()
}

func rgb8(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func supportsKittyGraphics() bool {
	return kittyTerminal(os.Getenv)
}

// kittyTerminal decides from the environment whether Kitty graphics escapes reach
// the screen. tmux swallows them unless passthrough is configured, so frames
// fall back to half blocks there.
func kittyTerminal(getenv func(string) string) bool {
	term := getenv("TERM")
	switch {
	case getenv("TMUX") != "":
		return false
	case getenv("KITTY_WINDOW_ID") != "":
		return true
	case strings.Contains(term, "kitty"), strings.Contains(term, "konsole"):
		return true
	}

	switch getenv("TERM_PROGRAM") {
	case "ghostty", "WezTerm":
		return true
	}
	return false
}

// kittyImageID is reused for every frame so each transmit replaces the last
const kittyImageID = 42

// encodeFrameForKitty encodes an already-scaled frame as a Kitty graphics placement
// spanning cols terminal columns
func encodeFrameForKitty(img image.Image, cols int) (string, error) {
	if img == nil {
		return "", fmt.Errorf("nil image")
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	// Payloads over 4096 bytes must be chunked
	const chunkSize = 4096
	var result strings.Builder

	result.WriteString(fmt.Sprintf("\033_Ga=d,d=I,i=%d\033\\", kittyImageID))

	if len(encoded) <= chunkSize {
		result.WriteString(fmt.Sprintf("\033_Ga=T,f=100,t=d,i=%d,c=%d,C=1;%s\033\\", kittyImageID, cols, encoded))
		return result.String(), nil
	}

	for i := 0; i < len(encoded); i += chunkSize {
		end := i + chunkSize
		if end > len(encoded) {
			end = len(encoded)
		}
		chunk := encoded[i:end]

		switch {
		case i == 0:
			result.WriteString(fmt.Sprintf("\033_Ga=T,f=100,t=d,i=%d,c=%d,C=1,m=1;%s\033\\", kittyImageID, cols, chunk))
		case end == len(encoded):
			result.WriteString(fmt.Sprintf("\033_Gm=0;%s\033\\", chunk))
		default:
			result.WriteString(fmt.Sprintf("\033_Gm=1;%s\033\\", chunk))
		}
	}

	return result.String(), nil
}
