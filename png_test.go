package imgsize

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunk builds a chunk with a correct CRC: length, type, data, CRC32 over
// type and data.
func chunk(typ string, data []byte) []byte {
	b := binary.BigEndian.AppendUint32(nil, uint32(len(data)))
	b = append(b, typ...)
	b = append(b, data...)
	return binary.BigEndian.AppendUint32(b, crc32.ChecksumIEEE(b[4:]))
}

// ihdrData builds a 13-byte IHDR payload for the given dimensions.
func ihdrData(width, height uint32) []byte {
	d := make([]byte, 13)
	binary.BigEndian.PutUint32(d[0:4], width)
	binary.BigEndian.PutUint32(d[4:8], height)
	d[8] = 8 // bit depth
	d[9] = 2 // color type: truecolor
	return d
}

// textData builds a tEXt payload: keyword, NUL, text.
func textData(keyword, text string) []byte {
	return append(append([]byte(keyword), 0), text...)
}

// minimalPNG builds the signature, the given chunks, then IEND.
func minimalPNG(chunks ...[]byte) []byte {
	buf := append([]byte(nil), pngSignature[:]...)
	for _, c := range chunks {
		buf = append(buf, c...)
	}
	return append(buf, chunk("IEND", nil)...)
}

func TestPNGDimensions(t *testing.T) {
	tests := []struct {
		width, height uint32
	}{
		{1, 1},
		{400, 224},
		{65536, 1}, // beyond the 16-bit range JPEG is limited to
		{0, 0},     // zero is passed through uninterpreted
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dx%d", tt.width, tt.height), func(t *testing.T) {
			md, err := ReadBytes(minimalPNG(chunk("IHDR", ihdrData(tt.width, tt.height))))
			require.NoError(t, err)
			assert.Equal(t, tt.width, md.Width)
			assert.Equal(t, tt.height, md.Height)
			assert.Empty(t, md.Comments)
		})
	}
}

func TestPNGComments(t *testing.T) {
	buf := minimalPNG(
		chunk("IHDR", ihdrData(400, 224)),
		chunk("tEXt", textData("comment", "first")),
		chunk("tEXt", textData("author", "nobody")), // wrong keyword, ignored
		chunk("tEXt", textData("comment", "second")),
		chunk("tEXt", textData("comment", "second")), // duplicates are kept
	)
	md, err := ReadBytes(buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "second"}, md.CommentStrings())
}

func TestPNGIgnoresUnknownChunks(t *testing.T) {
	buf := minimalPNG(
		chunk("IHDR", ihdrData(17, 23)),
		chunk("IDAT", []byte{0x78, 0x9C, 0x01, 0x00}),
		chunk("gAMA", []byte{0x00, 0x01, 0x86, 0xA0}),
	)
	md, err := ReadBytes(buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(17), md.Width)
	assert.Equal(t, uint32(23), md.Height)
}

func TestPNGStopsAtIEND(t *testing.T) {
	// Trailing garbage after IEND is never looked at, even if it would be
	// a corrupt chunk.
	buf := minimalPNG(
		chunk("IHDR", ihdrData(8, 8)),
		chunk("tEXt", textData("comment", "kept")),
	)
	bad := chunk("tEXt", textData("comment", "dropped"))
	bad[len(bad)-1]++ // corrupt its CRC
	buf = append(buf, bad...)

	md, err := ReadBytes(buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, md.CommentStrings())
}

func TestPNGCRCMismatch(t *testing.T) {
	// Flipping any byte of a chunk's type, payload or CRC must surface as
	// a CRC failure. The IHDR chunk spans offsets 8..33; its length field
	// (8..12) is exempt because changing it truncates the chunk instead.
	valid := minimalPNG(chunk("IHDR", ihdrData(400, 224)))
	for i := 12; i < 33; i++ {
		buf := append([]byte(nil), valid...)
		buf[i] ^= 0x40

		_, err := ReadBytes(buf)
		var crcErr *InvalidChunkCRCError
		require.ErrorAs(t, err, &crcErr, "flipped byte %d", i)
		assert.Equal(t, 8, crcErr.Offset)
	}
}

func TestPNGInvalidIHDRLength(t *testing.T) {
	// A 14-byte IHDR with a consistent CRC still has the wrong length.
	buf := minimalPNG(chunk("IHDR", append(ihdrData(400, 224), 0x00)))
	_, err := ReadBytes(buf)
	var lenErr *InvalidIHDRLengthError
	require.ErrorAs(t, err, &lenErr)
	assert.Equal(t, uint32(14), lenErr.Length)
}

func TestPNGMissingIHDR(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"signature only", pngSignature[:]},
		{"IHDR removed", minimalPNG(chunk("tEXt", textData("comment", "hi")))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBytes(tt.buf)
			var missing *MissingIHDRError
			require.ErrorAs(t, err, &missing)
		})
	}
}

func TestPNGTruncatedChunk(t *testing.T) {
	buf := minimalPNG(chunk("IHDR", ihdrData(400, 224)))
	// Declare a length far past the end of the buffer.
	binary.BigEndian.PutUint32(buf[8:12], 0xFFFFFFF0)

	_, err := ReadBytes(buf)
	var trunc *TruncatedChunkError
	require.ErrorAs(t, err, &trunc)
	assert.Equal(t, 8, trunc.Offset)
}

func TestPNGMalformedTextChunk(t *testing.T) {
	buf := minimalPNG(
		chunk("IHDR", ihdrData(400, 224)),
		chunk("tEXt", []byte("no separator here")),
	)
	_, err := ReadBytes(buf)
	var malformed *MalformedTextChunkError
	require.ErrorAs(t, err, &malformed)
}

func TestPNGHostileInput(t *testing.T) {
	// Inputs that crashed naive length-trusting scanners. They only need
	// to come back with a typed error, never an out-of-range access.
	tests := []struct {
		name string
		buf  []byte
	}{
		{
			name: "truncated after signature",
			buf:  []byte{0x89, 0x50, 0x4E, 0x47, 0xFF, 0x00, 0xFF, 0xFF, 0xB9},
		},
		{
			name: "length overruns buffer",
			buf: []byte{
				0x89, 0x50, 0x4E, 0x47, 0x30, 0x00, 0x00, 0x00,
				0xEE, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0xFF, 0xD8, 0xFF, 0x40,
			},
		},
		{
			name: "nested bogus lengths",
			buf: []byte{
				0x89, 0x50, 0x4E, 0x47, 0xDB, 0xDB, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x3A, 0x00, 0x00, 0x4A, 0xD8,
				0xFF, 0xF8, 0x00, 0x13, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0xF8, 0x00, 0x13, 0x00, 0x00, 0x00, 0xBB, 0xBB,
				0xBB, 0xBB, 0xBB, 0xBB, 0xBB, 0xBB, 0xBB, 0x00,
				0x00, 0x00, 0x00, 0xF8, 0x00, 0x09, 0x00, 0x00,
				0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xDB,
				0xDB, 0x3D,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBytes(tt.buf)
			var derr DecodingError
			require.ErrorAs(t, err, &derr)
		})
	}
}
