package imgsize

import (
	"bytes"
	"encoding/binary"
)

// JPEG marker words. Frame headers (SOFn) occupy 0xFFC0-0xFFCF, sharing the
// range with DHT, JPG and DAC.
const (
	markerSOF0  uint16 = 0xFFC0
	markerDHT   uint16 = 0xFFC4
	markerJPG   uint16 = 0xFFC8
	markerDAC   uint16 = 0xFFCC
	markerSOF15 uint16 = 0xFFCF
	markerSOI   uint16 = 0xFFD8
	markerEOI   uint16 = 0xFFD9
	markerSOS   uint16 = 0xFFDA
	markerCOM   uint16 = 0xFFFE
)

// jpegScanner walks the marker segments of a JPEG stream. It borrows the
// buffer and strictly advances pos, so a scan always terminates.
type jpegScanner struct {
	buf      []byte
	pos      int
	comments [][]byte
	width    uint32
	height   uint32
	haveDims bool
}

// jpegSegment is a view of a single marker segment. data points into the
// scanner's buffer and is only valid until the caller moves on.
type jpegSegment struct {
	marker uint16
	offset int
	data   []byte
}

// readJPEGData scans JPEG data and returns its dimensions and any comments
// found. The dimensions come from the first SOF segment; later frame
// headers do not overwrite them.
func readJPEGData(buf []byte) (*ImageMetadata, error) {
	if len(buf) < 2 || buf[0] != 0xFF || buf[1] != 0xD8 {
		return nil, &NoSOIMarkerError{}
	}
	s := &jpegScanner{buf: buf, pos: 2} // past the SOI marker
	for {
		seg, err := s.readSegment()
		if err != nil {
			return nil, err
		}
		if seg == nil {
			break
		}
		switch {
		case seg.isSOF() && !s.haveDims:
			w, h, err := seg.frameSize()
			if err != nil {
				return nil, err
			}
			s.width, s.height = uint32(w), uint32(h)
			s.haveDims = true
		case seg.marker == markerCOM:
			s.comments = append(s.comments, append([]byte(nil), seg.data...))
		}
	}
	if !s.haveDims {
		return nil, &NoSOFMarkerError{Position: s.pos, Comments: s.comments}
	}
	return &ImageMetadata{Width: s.width, Height: s.height, Comments: s.comments}, nil
}

// readSegment returns the next segment, or nil once the metadata is
// exhausted: at EOI, at SOS (entropy-coded data follows, nothing of
// interest past it), or at the end of the buffer.
func (s *jpegScanner) readSegment() (*jpegSegment, error) {
	for {
		if s.pos >= len(s.buf) || s.buf[s.pos] != 0xFF {
			s.resync()
		}
		if s.pos+1 >= len(s.buf) || s.buf[s.pos] != 0xFF {
			return nil, nil
		}

		offset := s.pos
		marker := binary.BigEndian.Uint16(s.buf[offset : offset+2])
		if marker < 0xFF01 || marker == 0xFFFF {
			return nil, &InvalidFrameMarkerError{Word: marker, Position: offset}
		}

		switch marker {
		case markerEOI, markerSOS:
			return nil, nil
		case markerSOI:
			// A stray SOI mid-stream carries no length; skip it.
			s.pos += 2
			continue
		}

		if offset+4 > len(s.buf) {
			// Not enough bytes left for a length field.
			s.pos = len(s.buf)
			return nil, nil
		}
		length := int(binary.BigEndian.Uint16(s.buf[offset+2 : offset+4]))
		if length < 2 || offset+2+length > len(s.buf) {
			return nil, &InvalidSegmentLengthError{Length: length}
		}
		s.pos = offset + 2 + length
		return &jpegSegment{
			marker: marker,
			offset: offset,
			data:   s.buf[offset+4 : offset+2+length],
		}, nil
	}
}

// resync advances the cursor to the next 0xFF byte followed by a value
// above 0x01. It recovers from corrupt or unsupported bytes between
// segments; reaching the end of the buffer without a marker just ends the
// scan.
func (s *jpegScanner) resync() {
	for s.pos+1 < len(s.buf) {
		if s.buf[s.pos] == 0xFF && s.buf[s.pos+1] > 0x01 {
			return
		}
		next := bytes.IndexByte(s.buf[s.pos+1:], 0xFF)
		if next < 0 {
			s.pos = len(s.buf)
			return
		}
		s.pos += next + 1
	}
}

// isSOF reports whether this segment is a frame header. DHT, JPG and DAC
// sit inside the SOF range but are not frame headers.
func (seg *jpegSegment) isSOF() bool {
	return seg.marker >= markerSOF0 && seg.marker <= markerSOF15 &&
		seg.marker != markerDHT && seg.marker != markerJPG && seg.marker != markerDAC
}

// frameSize reads the dimensions from a SOF payload: byte 0 is the sample
// precision, bytes 1-2 the height, bytes 3-4 the width.
func (seg *jpegSegment) frameSize() (width, height uint16, err error) {
	if len(seg.data) < 5 {
		return 0, 0, &SOFDataTooShortError{Position: seg.offset}
	}
	height = binary.BigEndian.Uint16(seg.data[1:3])
	width = binary.BigEndian.Uint16(seg.data[3:5])
	return width, height, nil
}
