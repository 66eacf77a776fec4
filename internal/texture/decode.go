package texture

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// decodeFile reads an image into tightly packed RGBA, downscaling anything
// larger than maxSize on its longest edge. flipY stores the bottom row first,
// matching the GL convention of t=0 at the bottom.
func decodeFile(path string, maxSize int, flipY bool) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	src := img.Bounds()
	w, h := src.Dx(), src.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("image %s is empty", path)
	}

	var rgba *image.RGBA
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		nw, nh := fitWithin(w, h, maxSize)
		rgba = image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(rgba, rgba.Bounds(), img, src, draw.Src, nil)
	} else {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Bounds(), img, src.Min, draw.Src)
	}

	if flipY {
		flipRows(rgba)
	}
	return rgba, nil
}

func fitWithin(w, h, limit int) (int, int) {
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

func flipRows(img *image.RGBA) {
	h := img.Rect.Dy()
	stride := img.Stride
	tmp := make([]byte, stride)
	for top, bottom := 0, h-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := img.Pix[top*stride : (top+1)*stride]
		b := img.Pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}
