// scopview is an interactive model viewer: it loads an OBJ or glTF mesh plus
// an optional texture image, renders on the CPU, and displays through an
// SDL2/OpenGL window.
//
// Usage:
//
//	scopview [flags] <model.(obj|gltf|glb)> [texture.(bmp|tga|png|jpg)]
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/scopview/scopview/internal/config"
	"github.com/scopview/scopview/internal/logger"
	"github.com/scopview/scopview/internal/model"
	"github.com/scopview/scopview/internal/texture"
	"github.com/scopview/scopview/internal/viewer"
	"github.com/scopview/scopview/pkg/math"
)

var textureExtensions = []string{".bmp", ".tga", ".png", ".jpg", ".jpeg"}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "scopview: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "scopview: logger init: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, config.Args()); err != nil {
		logger.Error("fatal", zap.Error(err))
		fmt.Fprintf(os.Stderr, "scopview: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: scopview [flags] <model.(obj|gltf|glb)> [texture.(bmp|tga|png|jpg)]")
	}

	modelPath := args[0]
	if err := checkFile(modelPath); err != nil {
		return err
	}
	if !model.Supported(modelPath) {
		return fmt.Errorf("%s: unsupported model format, want one of %s",
			modelPath, strings.Join(model.SupportedExtensions, " "))
	}

	res, err := model.Load(modelPath)
	if err != nil {
		return err
	}

	tex, err := resolveTexture(args, res)
	if err != nil {
		return err
	}

	v, err := viewer.New(cfg, res.Model, tex)
	if err != nil {
		return err
	}
	return v.Run()
}

// resolveTexture picks the texture by priority: command line, model
// material, embedded image, procedural checkerboard.
func resolveTexture(args []string, res *model.Result) (*texture.Texture, error) {
	if len(args) == 2 {
		path := args[1]
		if err := checkFile(path); err != nil {
			return nil, err
		}
		if !supportedTexture(path) {
			return nil, fmt.Errorf("%s: unsupported texture format, want one of %s",
				path, strings.Join(textureExtensions, " "))
		}
		return texture.Load(path)
	}

	if res.TexturePath != "" {
		tex, err := texture.Load(res.TexturePath)
		if err == nil {
			return tex, nil
		}
		logger.Warn("material texture unreadable, falling back",
			zap.String("path", res.TexturePath), zap.Error(err))
	}

	if res.Embedded != nil {
		return texture.FromImage(res.Embedded), nil
	}

	logger.Info("no texture provided, using checkerboard")
	return texture.NewChecker(256, 256, 32,
		math.Vec4{X: 0.78, Y: 0.78, Z: 0.78, W: 1},
		math.Vec4{X: 0.35, Y: 0.35, Z: 0.35, W: 1}), nil
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s: is a directory", path)
	}
	return nil
}

func supportedTexture(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range textureExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
