package graphics

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"io/fs"

	"glscene/internal/gpu"
)

// Texture is an RGBA8 2D texture
type Texture struct {
	ID     uint32
	Width  int
	Height int

	dev gpu.Device
}

// UploadTexture copies img into a new texture
func UploadTexture(dev gpu.Device, img *image.RGBA, wrap gpu.Wrap) *Texture {
	size := img.Rect.Size()
	t := &Texture{ID: dev.GenTexture(), Width: size.X, Height: size.Y, dev: dev}
	dev.BindTexture(t.ID)
	dev.TexImage2D(int32(size.X), int32(size.Y), img.Pix, wrap)
	dev.BindTexture(0)
	return t
}

// LoadTexture decodes an image file from fsys and uploads it
func LoadTexture(dev gpu.Device, fsys fs.FS, path string, wrap gpu.Wrap) (*Texture, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return UploadTexture(dev, rgba, wrap), nil
}

// Bind binds the texture to a texture unit
func (t *Texture) Bind(unit uint32) {
	t.dev.ActiveTexture(unit)
	t.dev.BindTexture(t.ID)
}

// Delete releases the texture
func (t *Texture) Delete() {
	if t.ID != 0 {
		t.dev.DeleteTexture(t.ID)
		t.ID = 0
	}
}
