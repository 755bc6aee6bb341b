// Package imgsize extracts pixel dimensions and embedded comments from JPEG
// and PNG data without decoding any pixel data.
//
// For PNG images, the dimensions come from the IHDR chunk and the comments
// from tEXt chunks with the keyword "comment". For JPEG images, the
// dimensions come from the first SOF segment and the comments from COM
// segments. EXIF data is not read.
//
// Example:
//
//	md, err := imgsize.ReadFile("buttercups.jpg")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%dx%d %q\n", md.Width, md.Height, md.CommentStrings())
package imgsize

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// ImageMetadata holds an image's dimensions, along with any comments found
// in the data. Comments appear in the order they were encountered in the
// stream; duplicates are kept.
type ImageMetadata struct {
	Width    uint32
	Height   uint32
	Comments [][]byte
}

// CommentStrings returns the comments converted to strings. Comments are
// raw bytes on the wire; the conversion is lossy for non-UTF-8 data in the
// usual Go way.
func (md *ImageMetadata) CommentStrings() []string {
	if len(md.Comments) == 0 {
		return nil
	}
	out := make([]string, len(md.Comments))
	for i, c := range md.Comments {
		out[i] = string(c)
	}
	return out
}

// ReadBytes extracts the dimensions and comments of an image from a byte
// slice. The slice is only borrowed; comment payloads are copied out of it.
// All failures are DecodingError values.
func ReadBytes(data []byte) (*ImageMetadata, error) {
	if len(data) < 4 {
		return nil, &TooShortError{Length: len(data)}
	}
	switch DetectFormat(data) {
	case FormatJPEG:
		return readJPEGData(data)
	case FormatPNG:
		return readPNGData(data)
	default:
		return nil, &UnknownMagicError{Magic: binary.BigEndian.Uint32(data[:4])}
	}
}

// ReadFile reads an entire image file into memory and extracts its
// dimensions and comments. I/O failures are returned wrapped and do not
// implement DecodingError.
func ReadFile(path string) (*ImageMetadata, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "imgsize: reading %s", path)
	}
	return ReadBytes(buf)
}

// ReadReader slurps r and extracts the dimensions and comments of the image
// it produced. Like ReadFile, read failures do not implement DecodingError.
func ReadReader(r io.Reader) (*ImageMetadata, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "imgsize: reading image data")
	}
	return ReadBytes(buf)
}
