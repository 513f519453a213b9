// Package images validates product image uploads: byte size, media
// type, pixel dimensions and aspect ratio. It only inspects the image
// header; nothing is stored here.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	// MaxFileSize is the upload ceiling in bytes (10 MiB).
	MaxFileSize = 10485760
	// MaxImageWidth and MaxImageHeight bound the pixel dimensions.
	MaxImageWidth  = 1920
	MaxImageHeight = 1080

	// Product images must be 16:9, within a small tolerance on the
	// ratio and within the [1.77, 1.78] band.
	targetAspect    = 16.0 / 9.0
	aspectTolerance = 0.01
	aspectBandLow   = 1.77
	aspectBandHigh  = 1.78
)

// AllowedMIMETypes lists the media types accepted for uploads.
var AllowedMIMETypes = []string{"image/jpeg", "image/png", "image/webp"}

// Validation failures: the request is rejected, nothing is mutated.
var (
	ErrTooLarge    = errors.New("image exceeds the maximum file size")
	ErrContentType = errors.New("image media type is not allowed")
	ErrDimensions  = errors.New("image exceeds the maximum dimensions")
	ErrAspectRatio = errors.New("image aspect ratio must be 16:9")
)

// ErrDecode marks image bytes that could not be read at all. It is an
// internal failure, kept distinct from the validation failures above.
var ErrDecode = errors.New("image could not be decoded")

// Validate checks an upload against the catalog's image rules. A nil
// return means the image is acceptable.
func Validate(data []byte, contentType string) error {
	if len(data) > MaxFileSize {
		return ErrTooLarge
	}
	if !allowedType(contentType) {
		return ErrContentType
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width > MaxImageWidth || cfg.Height > MaxImageHeight {
		return ErrDimensions
	}
	ratio := float64(cfg.Width) / float64(cfg.Height)
	if math.Abs(ratio-targetAspect) > aspectTolerance {
		return ErrAspectRatio
	}
	if ratio < aspectBandLow || ratio > aspectBandHigh {
		return ErrAspectRatio
	}
	return nil
}

func allowedType(contentType string) bool {
	for _, allowed := range AllowedMIMETypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}
