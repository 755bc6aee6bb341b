package imgsize

import "fmt"

// DecodingError is implemented by every error describing malformed image
// data. I/O errors from ReadFile and ReadReader do not implement it, so
// callers can tell "couldn't read it" apart from "couldn't make sense of it":
//
//	var derr imgsize.DecodingError
//	if errors.As(err, &derr) { ... }
type DecodingError interface {
	error
	decodingError()
}

// TooShortError is returned when a buffer is too short to carry even a
// magic number.
type TooShortError struct {
	Length int
}

func (e *TooShortError) Error() string {
	return fmt.Sprintf("imgsize: image data too short: %d bytes", e.Length)
}

// UnknownMagicError is returned when the leading bytes match no supported
// format. Magic holds the first four bytes as a big-endian value.
type UnknownMagicError struct {
	Magic uint32
}

func (e *UnknownMagicError) Error() string {
	return fmt.Sprintf("imgsize: unknown magic number: 0x%08x", e.Magic)
}

// NoSOIMarkerError is returned when JPEG data does not begin with the SOI
// marker. ReadBytes only routes to the JPEG scanner after matching SOI, so
// it never surfaces this error; it is kept for completeness.
type NoSOIMarkerError struct{}

func (e *NoSOIMarkerError) Error() string {
	return "imgsize: no SOI marker found"
}

// NoSOFMarkerError is returned when a JPEG stream ends without a frame
// header. Comments holds whatever COM payloads were collected before the
// scan ran out, for diagnostics.
type NoSOFMarkerError struct {
	Position int
	Comments [][]byte
}

func (e *NoSOFMarkerError) Error() string {
	return fmt.Sprintf("imgsize: no SOF marker found by position %d", e.Position)
}

// SOFDataTooShortError is returned when a SOF payload is too short to hold
// the precision, height and width fields.
type SOFDataTooShortError struct {
	Position int
}

func (e *SOFDataTooShortError) Error() string {
	return fmt.Sprintf("imgsize: SOF data too short at position %d", e.Position)
}

// InvalidFrameMarkerError is returned for a structurally impossible JPEG
// marker word (below 0xFF01, or the 0xFFFF fill pattern).
type InvalidFrameMarkerError struct {
	Word     uint16
	Position int
}

func (e *InvalidFrameMarkerError) Error() string {
	return fmt.Sprintf("imgsize: invalid frame marker 0x%04x at position %d", e.Word, e.Position)
}

// InvalidSegmentLengthError is returned when a JPEG segment's declared
// length is below 2 or would run past the end of the buffer.
type InvalidSegmentLengthError struct {
	Length int
}

func (e *InvalidSegmentLengthError) Error() string {
	return fmt.Sprintf("imgsize: invalid JPEG segment length: %d", e.Length)
}

// MissingIHDRError is returned when a PNG stream ends without an IHDR chunk.
type MissingIHDRError struct{}

func (e *MissingIHDRError) Error() string {
	return "imgsize: IHDR chunk missing from PNG"
}

// InvalidIHDRLengthError is returned when an IHDR chunk's declared length is
// not exactly 13.
type InvalidIHDRLengthError struct {
	Length uint32
}

func (e *InvalidIHDRLengthError) Error() string {
	return fmt.Sprintf("imgsize: invalid IHDR chunk length: %d", e.Length)
}

// InvalidChunkCRCError is returned when a PNG chunk's stored CRC does not
// match the CRC computed over its type and payload. Offset is the position
// of the chunk's length field.
type InvalidChunkCRCError struct {
	Offset int
}

func (e *InvalidChunkCRCError) Error() string {
	return fmt.Sprintf("imgsize: invalid chunk CRC at offset %d", e.Offset)
}

// TruncatedChunkError is returned when a PNG chunk's declared length would
// read past the end of the buffer. Offset is the position of the chunk's
// length field.
type TruncatedChunkError struct {
	Offset int
}

func (e *TruncatedChunkError) Error() string {
	return fmt.Sprintf("imgsize: truncated chunk at offset %d", e.Offset)
}

// MalformedTextChunkError is returned when a tEXt chunk has no NUL byte
// separating its keyword from its text.
type MalformedTextChunkError struct {
	Offset int
}

func (e *MalformedTextChunkError) Error() string {
	return fmt.Sprintf("imgsize: tEXt chunk without keyword separator at offset %d", e.Offset)
}

func (e *TooShortError) decodingError() {}
func (e *UnknownMagicError) decodingError() {}
func (e *NoSOIMarkerError) decodingError() {}
func (e *NoSOFMarkerError) decodingError() {}
func (e *SOFDataTooShortError) decodingError() {}
func (e *InvalidFrameMarkerError) decodingError() {}
func (e *InvalidSegmentLengthError) decodingError() {}
func (e *MissingIHDRError) decodingError() {}
func (e *InvalidIHDRLengthError) decodingError() {}
func (e *InvalidChunkCRCError) decodingError() {}
func (e *TruncatedChunkError) decodingError() {}
func (e *MalformedTextChunkError) decodingError() {}

