package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
)

var (
	iconIdle   []byte
	iconIdleHi []byte
	iconWarnHi []byte
)

func init() {
	iconIdle = renderSpeaker(22)
	iconIdleHi = renderSpeaker(44)
	iconWarnHi = renderWarnIcon(44)
}

// Icon returns the speaker glyph as a size×size PNG.
func Icon(size int) []byte {
	return renderSpeaker(size)
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic("encodePNG: " + err.Error())
	}
	return buf.Bytes()
}

// drawSpeaker paints a speaker cone with two sound waves, in black so macOS
// can treat it as a template image.
func drawSpeaker(img *image.RGBA, size int) {
	s := float64(size)
	cy := s / 2
	boxL, boxR := s*0.12, s*0.30
	boxH := s * 0.18
	coneR := s * 0.50
	coneH := s * 0.36
	stroke := s * 0.06

	for y := range size {
		for x := range size {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			dy := math.Abs(fy - cy)

			inBox := fx >= boxL && fx <= boxR && dy <= boxH
			// cone widens linearly from the box to coneR
			inCone := fx > boxR && fx <= coneR && dy <= boxH+(fx-boxR)/(coneR-boxR)*(coneH-boxH)

			d := math.Hypot(fx-coneR+s*0.08, fy-cy)
			angle := math.Abs(math.Atan2(fy-cy, fx-coneR+s*0.08))
			onArc := fx > coneR && angle < math.Pi/4 &&
				(math.Abs(d-s*0.22) <= stroke/2 || math.Abs(d-s*0.36) <= stroke/2)

			if inBox || inCone || onArc {
				img.Set(x, y, color.Black)
			}
		}
	}
}

func renderSpeaker(size int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	drawSpeaker(img, size)
	return encodePNG(img)
}

func renderWarnIcon(size int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	drawSpeaker(img, size)

	// Small yellow badge with "!" in bottom-right corner
	s := float64(size)
	badgeR := s * 0.34
	badgeCX, badgeCY := s-badgeR+0.5, s-badgeR+0.5
	dark := color.RGBA{R: 40, G: 40, B: 40, A: 255}
	yellow := color.RGBA{R: 255, G: 204, B: 0, A: 255}
	bangHW := badgeR * 0.24

	for y := range size {
		for x := range size {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			if math.Hypot(fx-badgeCX, fy-badgeCY) > badgeR {
				continue
			}
			localY := (fy - (badgeCY - badgeR*0.7)) / (badgeR * 1.4)
			localX := math.Abs(fx - badgeCX)
			isBar := localX <= bangHW && localY >= 0.1 && localY <= 0.62
			isDot := localX <= bangHW && localY >= 0.72 && localY <= 0.85
			if isBar || isDot {
				img.Set(x, y, dark)
			} else {
				img.Set(x, y, yellow)
			}
		}
	}
	return encodePNG(img)
}
