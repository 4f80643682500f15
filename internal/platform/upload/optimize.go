// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package upload

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// probeImage fully decodes the stream, catching truncated and corrupt files
// that a header-only check would wave through.
func probeImage(reader io.Reader) error {
	_, _, err := image.Decode(reader)
	return err
}

/*
Optimize downsamples a stored image in place so it fits maxWidth x maxHeight.

Description: The scale factor is min(maxWidth/w, maxHeight/h) capped at 1.0;
images already within bounds are left untouched and upscaling never happens.
PNG alpha survives the resample. Decode failures are soft: the original file
stays as uploaded and the caller proceeds, since a stored image that passed
validation but resists re-encoding is better served as-is than lost.

Parameters:
  - relativePath: Path previously returned by [Storage.Save]
  - maxWidth: Bounding width in pixels
  - maxHeight: Bounding height in pixels

Returns:
  - error: Write failures only; decode problems are swallowed
*/
func (storage *Storage) Optimize(relativePath string, maxWidth, maxHeight int) error {
	path := filepath.Join(storage.root, filepath.FromSlash(relativePath))

	source, err := os.Open(path)
	if err != nil {
		return nil
	}

	decoded, format, err := image.Decode(source)
	source.Close()
	if err != nil {
		return nil
	}

	bounds := decoded.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil
	}

	scale := minScale(float64(maxWidth)/float64(width), float64(maxHeight)/float64(height))
	if scale >= 1.0 {
		return nil
	}

	targetWidth := int(float64(width) * scale)
	targetHeight := int(float64(height) * scale)
	if targetWidth < 1 {
		targetWidth = 1
	}
	if targetHeight < 1 {
		targetHeight = 1
	}

	// NRGBA keeps the alpha channel intact for PNG sources.
	resized := image.NewNRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), decoded, bounds, draw.Over, nil)

	destination, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("upload: failed to rewrite %q: %w", relativePath, err)
	}
	defer destination.Close()

	switch {
	case format == "png" || strings.HasSuffix(path, ".png"):
		err = png.Encode(destination, resized)
	case format == "gif":
		err = gif.Encode(destination, resized, nil)
	default:
		err = jpeg.Encode(destination, resized, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return fmt.Errorf("upload: failed to encode %q: %w", relativePath, err)
	}

	return nil
}

func minScale(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
