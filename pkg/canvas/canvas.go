// Package canvas provides the fixed-size drawing surfaces maps are painted
// on and persists them to image files.
//
// A [Builder] creates a [File] canvas backed by a raster surface (PNG or
// JPEG, rendered with github.com/gogpu/gg) or a vector surface (SVG,
// written with github.com/ajstarks/svgo). Coordinates are in points with
// the origin at the top-left corner and y growing downwards.
//
// Output is atomic. Build removes any stale file at the output path and
// draws into memory; Close encodes into a temporary file next to the
// output and renames it into place. Abort discards everything, so a
// failed render never leaves a partial image behind:
//
//	c, err := canvas.Builder{Path: "out/map.png", Width: canvas.Px(1280), Height: canvas.Px(640)}.Build()
//	if err != nil {
//	    return err
//	}
//	defer c.Abort()
//	// ... draw ...
//	return c.Close()
package canvas

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/matzehuels/worldmaps/pkg/errors"
)

// Canvas is a drawing surface. Later draws paint over earlier ones.
type Canvas interface {
	Width() Unit
	Height() Unit

	// FillRect fills the whole canvas.
	FillRect(c Color) error

	// FillPolygons fills polygons given in canvas coordinates. Each
	// polygon is filled with the even-odd rule, so holes stay unfilled.
	FillPolygons(c Color, mp orb.MultiPolygon) error

	// DrawText lays out and paints a text block.
	DrawText(t TextBlock) error

	// Close flushes all draws to the output. Drawing after Close fails
	// with [errors.ErrCodeCanvasClosed].
	Close() error
}

// Format is an output image format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatSVG  Format = "svg"
)

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".svg":
		return FormatSVG, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "no image format for %q (want .png, .jpg or .svg)", path)
}

// JPEGQuality is the quality used for JPEG output.
const JPEGQuality = 90

// surface is the in-memory drawing backend of a File.
type surface interface {
	fillRect(c Color) error
	fillPolygons(c Color, mp orb.MultiPolygon) error
	drawText(t TextBlock) error
	encode(w io.Writer) error
	release()
}

// Builder configures a canvas.
type Builder struct {
	// Path is the output file.
	Path string
	// Width and Height are the canvas size.
	Width, Height Unit
	// Format overrides the format inferred from Path.
	Format Format
	// Title is written into SVG output.
	Title string
}

// Build creates the output directory, removes any existing file at Path
// and returns an empty canvas.
func (b Builder) Build() (*File, error) {
	if err := errors.ValidateOutputPath(b.Path); err != nil {
		return nil, err
	}
	if b.Width <= 0 || b.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "canvas size %v x %v must be positive", b.Width, b.Height)
	}
	format := b.Format
	if format == "" {
		f, err := FormatFromPath(b.Path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	var s surface
	var err error
	switch format {
	case FormatPNG, FormatJPEG:
		s, err = newRaster(b.Width, b.Height, format)
	case FormatSVG:
		s, err = newVector(b.Width, b.Height, b.Title)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported image format %q", format)
	}
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(b.Path), 0o755); err != nil {
		s.release()
		return nil, errors.OutputWrite(err, b.Path)
	}
	if info, err := os.Stat(b.Path); err == nil && info.IsDir() {
		s.release()
		return nil, errors.OutputWrite(fmt.Errorf("is a directory"), b.Path)
	}
	if err := os.Remove(b.Path); err != nil && !os.IsNotExist(err) {
		s.release()
		return nil, errors.OutputWrite(err, b.Path)
	}

	return &File{path: b.Path, width: b.Width, height: b.Height, format: format, surface: s}, nil
}

// File is a canvas persisted to an image file on Close.
type File struct {
	path          string
	width, height Unit
	format        Format
	surface       surface
	closed        bool
}

// Width implements [Canvas].
func (f *File) Width() Unit { return f.width }

// Height implements [Canvas].
func (f *File) Height() Unit { return f.height }

// Path returns the output path.
func (f *File) Path() string { return f.path }

// Format returns the output format.
func (f *File) Format() Format { return f.format }

// FillRect implements [Canvas].
func (f *File) FillRect(c Color) error {
	if err := f.checkOpen(); err != nil {
		return err
	}
	return f.surface.fillRect(c)
}

// FillPolygons implements [Canvas].
func (f *File) FillPolygons(c Color, mp orb.MultiPolygon) error {
	if err := f.checkOpen(); err != nil {
		return err
	}
	return f.surface.fillPolygons(c, mp)
}

// DrawText implements [Canvas].
func (f *File) DrawText(t TextBlock) error {
	if err := f.checkOpen(); err != nil {
		return err
	}
	return f.surface.drawText(t)
}

func (f *File) checkOpen() error {
	if f.closed {
		return errors.New(errors.ErrCodeCanvasClosed, "canvas for %s is closed", f.path)
	}
	return nil
}

// Close encodes the canvas and moves it onto the output path. The canvas
// is closed afterwards even when writing fails, in which case no file is
// left at the output path.
func (f *File) Close() error {
	if err := f.checkOpen(); err != nil {
		return err
	}
	f.closed = true
	defer f.surface.release()

	dir, base := filepath.Split(f.path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.NewString()))
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.OutputWrite(err, f.path)
	}

	err = f.surface.encode(out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, f.path)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return errors.OutputWrite(err, f.path)
	}
	return nil
}

// Abort discards the canvas without writing anything. It is a no-op after
// Close, so it can be deferred right after Build.
func (f *File) Abort() {
	if f.closed {
		return
	}
	f.closed = true
	f.surface.release()
}
