package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
)

// Load reads and decodes a texture file. BMP, TGA, PNG and JPEG are
// recognized by content through the registered image decoders.
func Load(path string) (*Texture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}

	t := FromImage(img)
	if t.Width == 0 || t.Height == 0 {
		return nil, fmt.Errorf("texture: %s decoded to an empty %s image", path, format)
	}
	return t, nil
}
