package viewer

import (
	"fmt"
	"os"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"go.uber.org/zap"

	"github.com/scopview/scopview/internal/logger"
	"github.com/scopview/scopview/internal/raster"
)

// saveScreenshot encodes the current frame as lossless WebP next to the
// working directory.
func saveScreenshot(fb *raster.Framebuffer) (string, error) {
	name := fmt.Sprintf("scopview_%s.webp", time.Now().Format("20060102_150405"))

	f, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("create screenshot: %w", err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, fb.Image(), nil); err != nil {
		return "", fmt.Errorf("encode screenshot: %w", err)
	}

	logger.Info("screenshot saved",
		zap.String("file", name),
		zap.Int("width", fb.Width),
		zap.Int("height", fb.Height))
	return name, nil
}
