package imageutil

import (
	"fmt"
	"image"
	"io"
	"log"
	"os"

	_ "image/gif" // register gif
	"image/jpeg"
	_ "image/png" // register png

	"golang.org/x/image/draw"
)

// CompressAndSaveImage resizes & compresses the image before saving
func CompressAndSaveImage(img image.Image, savePath string, width, height, quality int) error {
	// Resize to fit within width x height
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	out, err := os.Create(savePath)
	if err != nil {
		log.Printf("[ERROR] Failed to create file -> path=%s, err=%v", savePath, err)
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			log.Printf("[WARN] Failed to close file -> path=%s, err=%v", savePath, cerr)
		}
	}()

	// Save as JPEG with compression
	opts := &jpeg.Options{Quality: quality}
	if err := jpeg.Encode(out, dst, opts); err != nil {
		log.Printf("[ERROR] Failed to encode image -> path=%s, err=%v", savePath, err)
		return fmt.Errorf("failed to encode image: %w", err)
	}

	return nil
}

// DecodeAndSave reads one uploaded image (jpeg, png or gif), then compresses
// it to the standard listing size.
func DecodeAndSave(r io.Reader, savePath string, width, height, quality int) error {
	img, _, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}
	return CompressAndSaveImage(img, savePath, width, height, quality)
}
