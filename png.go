package imgsize

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
)

var (
	chunkIHDR = []byte("IHDR")
	chunkTEXT = []byte("tEXt")
	chunkIEND = []byte("IEND")

	keywordComment = []byte("comment")
)

// pngScanner walks the chunks of a PNG stream. It borrows the buffer and
// strictly advances pos, so a scan always terminates.
type pngScanner struct {
	buf      []byte
	pos      int
	comments [][]byte
	width    uint32
	height   uint32
	haveDims bool
}

// pngChunk is a view of a single chunk, CRC already verified. typ and data
// point into the scanner's buffer.
type pngChunk struct {
	typ    []byte
	offset int
	data   []byte
}

// readPNGData scans PNG data and returns its dimensions and any comments
// found. The dimensions come from the IHDR chunk; comments come from tEXt
// chunks with the keyword "comment".
func readPNGData(buf []byte) (*ImageMetadata, error) {
	s := &pngScanner{buf: buf, pos: 8} // past the signature
scan:
	for {
		chunk, err := s.readChunk()
		if err != nil {
			return nil, err
		}
		if chunk == nil {
			break
		}
		switch {
		case bytes.Equal(chunk.typ, chunkIHDR):
			if len(chunk.data) != 13 {
				return nil, &InvalidIHDRLengthError{Length: uint32(len(chunk.data))}
			}
			if !s.haveDims {
				s.width = binary.BigEndian.Uint32(chunk.data[0:4])
				s.height = binary.BigEndian.Uint32(chunk.data[4:8])
				s.haveDims = true
			}
		case bytes.Equal(chunk.typ, chunkTEXT):
			// Payload is keyword, NUL, text.
			sep := bytes.IndexByte(chunk.data, 0)
			if sep < 0 {
				return nil, &MalformedTextChunkError{Offset: chunk.offset}
			}
			if bytes.Equal(chunk.data[:sep], keywordComment) {
				s.comments = append(s.comments, append([]byte(nil), chunk.data[sep+1:]...))
			}
		case bytes.Equal(chunk.typ, chunkIEND):
			break scan
		}
	}
	if !s.haveDims {
		return nil, &MissingIHDRError{}
	}
	return &ImageMetadata{Width: s.width, Height: s.height, Comments: s.comments}, nil
}

// readChunk returns the next chunk, or nil once fewer bytes remain than the
// smallest possible chunk. The declared length is validated against the
// remaining buffer before anything is sliced, and the trailing CRC is
// checked against the chunk's type and payload.
func (s *pngScanner) readChunk() (*pngChunk, error) {
	if len(s.buf)-s.pos < 12 {
		s.pos = len(s.buf)
		return nil, nil
	}
	offset := s.pos
	length := binary.BigEndian.Uint32(s.buf[offset : offset+4])
	typ := s.buf[offset+4 : offset+8]

	// The length field is attacker-controlled; compare against the
	// remaining bytes without ever forming an out-of-range index.
	remaining := len(s.buf) - offset - 8
	if uint64(length)+4 > uint64(remaining) {
		return nil, &TruncatedChunkError{Offset: offset}
	}

	data := s.buf[offset+8 : offset+8+int(length)]
	stored := binary.BigEndian.Uint32(s.buf[offset+8+int(length) : offset+12+int(length)])
	if crc32.ChecksumIEEE(s.buf[offset+4:offset+8+int(length)]) != stored {
		return nil, &InvalidChunkCRCError{Offset: offset}
	}

	s.pos = offset + 12 + int(length)
	return &pngChunk{typ: typ, offset: offset, data: data}, nil
}
