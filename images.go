package krasue

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// atlasPadding is the transparent border kept around every atlas cell so
// linear filtering never samples a neighbor.
const atlasPadding = 1

type registeredImage struct {
	key  string // file path or registered name
	src  image.Image
	w, h int
}

// ImageRegistry holds every image sprites can reference. The index returned
// when an image is registered is the value stored in Sprite.Image. All images
// are packed into a single atlas page so a batch can be drawn from one source
// texture.
type ImageRegistry struct {
	byPath map[string]int
	byName map[string]int
	images []registeredImage

	// layout, valid while layoutFor == len(images)
	layoutFor int
	cells     []image.Rectangle
	pageW     int
	pageH     int

	page    *ebiten.Image
	pageFor int
}

// NewImageRegistry returns an empty registry.
func NewImageRegistry() *ImageRegistry {
	return &ImageRegistry{
		byPath:    make(map[string]int),
		byName:    make(map[string]int),
		layoutFor: -1,
		pageFor:   -1,
	}
}

// LoadImage decodes the image file at path and returns its index. Loading the
// same path again returns the same index without touching the file.
func (r *ImageRegistry) LoadImage(path string) (int, error) {
	key := filepath.Clean(path)
	if i, ok := r.byPath[key]; ok {
		return i, nil
	}

	f, err := os.Open(key)
	if err != nil {
		return 0, fmt.Errorf("krasue: load image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return 0, fmt.Errorf("krasue: load image %s: %w", key, err)
	}
	i := r.add(key, img)
	r.byPath[key] = i
	Logger().Info("image loaded", "path", key, "index", i, "width", r.images[i].w, "height", r.images[i].h)
	return i, nil
}

// RegisterImage adds an in-memory image under name. Registering a name twice
// returns the first index and ignores img.
func (r *ImageRegistry) RegisterImage(name string, img image.Image) int {
	if i, ok := r.byName[name]; ok {
		return i
	}
	i := r.add(name, img)
	r.byName[name] = i
	return i
}

func (r *ImageRegistry) add(key string, img image.Image) int {
	b := img.Bounds()
	i := len(r.images)
	r.images = append(r.images, registeredImage{key: key, src: img, w: b.Dx(), h: b.Dy()})
	return i
}

// Len returns the number of registered images.
func (r *ImageRegistry) Len() int {
	return len(r.images)
}

// Size returns the pixel size of image i.
func (r *ImageRegistry) Size(i int) (w, h int, ok bool) {
	if i < 0 || i >= len(r.images) {
		return 0, 0, false
	}
	return r.images[i].w, r.images[i].h, true
}

// Cell returns the source rectangle of image i on the atlas page.
func (r *ImageRegistry) Cell(i int) (image.Rectangle, bool) {
	if i < 0 || i >= len(r.images) {
		return image.Rectangle{}, false
	}
	r.layout()
	return r.cells[i], true
}

// layout arranges images on a square-ish grid of equal cells sized to the
// largest image.
func (r *ImageRegistry) layout() {
	n := len(r.images)
	if r.layoutFor == n {
		return
	}
	r.layoutFor = n
	r.cells = r.cells[:0]
	r.pageW, r.pageH = 0, 0
	if n == 0 {
		return
	}

	maxW, maxH := 0, 0
	for _, img := range r.images {
		maxW = max(maxW, img.w)
		maxH = max(maxH, img.h)
	}
	cellW := maxW + 2*atlasPadding
	cellH := maxH + 2*atlasPadding
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols

	for i, img := range r.images {
		x := (i%cols)*cellW + atlasPadding
		y := (i/cols)*cellH + atlasPadding
		r.cells = append(r.cells, image.Rect(x, y, x+img.w, y+img.h))
	}
	r.pageW = cols * cellW
	r.pageH = rows * cellH
}

// Compose draws every registered image into its atlas cell and returns the
// page. It returns nil when the registry is empty.
func (r *ImageRegistry) Compose() *image.NRGBA {
	r.layout()
	if len(r.images) == 0 {
		return nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, r.pageW, r.pageH))
	for i, img := range r.images {
		draw.Draw(dst, r.cells[i], img.src, img.src.Bounds().Min, draw.Src)
	}
	return dst
}

// Page returns the atlas page as an Ebitengine image, rebuilding it when images
// were registered since the last call. It returns nil when the registry is
// empty.
func (r *ImageRegistry) Page() *ebiten.Image {
	n := len(r.images)
	if r.pageFor == n {
		return r.page
	}
	if r.page != nil {
		r.page.Deallocate()
		r.page = nil
	}
	r.pageFor = n
	if composed := r.Compose(); composed != nil {
		r.page = ebiten.NewImageFromImage(composed)
		Logger().Info("atlas built", "images", n, "width", r.pageW, "height", r.pageH)
	}
	return r.page
}
