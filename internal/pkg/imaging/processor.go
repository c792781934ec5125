package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// Portrait contains the encoded variants of a stylist portrait
type Portrait struct {
	Full        []byte
	Thumbnail   []byte
	ContentType string
	Width       int
	Height      int
}

// Config for image processing
type Config struct {
	Size      int // square edge of the full portrait
	ThumbSize int // square edge of the thumbnail
	Quality   int // JPEG quality 1-100
}

// DefaultConfig returns default processing config
func DefaultConfig() Config {
	return Config{
		Size:      800,
		ThumbSize: 200,
		Quality:   85,
	}
}

// Processor turns uploaded images into square JPEG portraits
type Processor struct {
	config Config
}

// NewProcessor creates image processor
func NewProcessor(config Config) *Processor {
	d := DefaultConfig()
	if config.Size <= 0 {
		config.Size = d.Size
	}
	if config.ThumbSize <= 0 {
		config.ThumbSize = d.ThumbSize
	}
	if config.Quality <= 0 || config.Quality > 100 {
		config.Quality = d.Quality
	}
	return &Processor{config: config}
}

// Process center-crops the image to a square, shrinking it to the configured
// size when larger, and renders a thumbnail. Output is always JPEG.
func (p *Processor) Process(data []byte) (*Portrait, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	edge := img.Bounds().Dx()
	if h := img.Bounds().Dy(); h < edge {
		edge = h
	}
	if edge > p.config.Size {
		edge = p.config.Size
	}

	full := imaging.Fill(img, edge, edge, imaging.Center, imaging.Lanczos)
	thumb := imaging.Fill(img, p.config.ThumbSize, p.config.ThumbSize, imaging.Center, imaging.Lanczos)

	fullBytes, err := p.encode(full)
	if err != nil {
		return nil, fmt.Errorf("failed to encode portrait: %w", err)
	}
	thumbBytes, err := p.encode(thumb)
	if err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return &Portrait{
		Full:        fullBytes,
		Thumbnail:   thumbBytes,
		ContentType: "image/jpeg",
		Width:       full.Bounds().Dx(),
		Height:      full.Bounds().Dy(),
	}, nil
}

func (p *Processor) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.config.Quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PortraitKeys returns the storage keys for a stylist portrait upload
func PortraitKeys(stylistID int64, name string) (full, thumb string) {
	full = fmt.Sprintf("stylists/%d/%s.jpg", stylistID, name)
	thumb = fmt.Sprintf("stylists/%d/%s_thumb.jpg", stylistID, name)
	return
}
