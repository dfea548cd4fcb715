package snow

import (
	"image"
	"image/color"
	"math/rand"

	xdraw "golang.org/x/image/draw"
)

// flakeScale is the ratio between the output size and the canvas flakes are
// drawn on; upscaling softens them into blobs.
const flakeScale = 4

// Texture returns a deterministic snowflake mask of the given size. Flakes
// are white on transparent black; the same seed gives the same pixels.
func Texture(width, height, flakes int, seed int64) *image.RGBA {
	width, height = max(width, 1), max(height, 1)
	cw, ch := max(width/flakeScale, 1), max(height/flakeScale, 1)
	canvas := image.NewRGBA(image.Rect(0, 0, cw, ch))

	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < flakes; i++ {
		x, y := rng.Intn(cw), rng.Intn(ch)
		v := uint8(160 + rng.Intn(96))
		canvas.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: v})
		if rng.Intn(4) == 0 && x+1 < cw {
			canvas.SetRGBA(x+1, y, color.RGBA{R: v / 2, G: v / 2, B: v / 2, A: v / 2})
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(out, out.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)
	return out
}
