package imgsize

// Format identifies a supported image format.
type Format string

const (
	FormatUnknown Format = ""
	FormatJPEG    Format = "JPEG"
	FormatPNG     Format = "PNG"
)

var pngSignature = [...]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// DetectFormat identifies the image format by examining the magic bytes.
// It returns FormatUnknown if the leading bytes match neither format.
func DetectFormat(data []byte) Format {
	// JPEG: FF D8
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8 {
		return FormatJPEG
	}

	// PNG: 89 50 4E 47
	if len(data) >= 4 && data[0] == pngSignature[0] && data[1] == pngSignature[1] &&
		data[2] == pngSignature[2] && data[3] == pngSignature[3] {
		return FormatPNG
	}

	return FormatUnknown
}
