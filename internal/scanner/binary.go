// Binary content detection so mislabelled or generated files never reach
// substring matching or tree-sitter
package scanner

import "bytes"

// sniffLen is the standard prefix length for file type detection
const sniffLen = 512

var binaryMagic = [][]byte{
	{0x1F, 0x8B},             // gzip
	{0x50, 0x4B, 0x03, 0x04}, // ZIP
	{0x89, 0x50, 0x4E, 0x47}, // PNG
	{0xFF, 0xD8, 0xFF},       // JPEG
	{0x25, 0x50, 0x44, 0x46}, // PDF
	{0x7F, 0x45, 0x4C, 0x46}, // ELF
	{0xCA, 0xFE, 0xBA, 0xBE}, // Java class / Mach-O
	{0x00, 0x61, 0x73, 0x6D}, // WebAssembly
}

// IsBinary reports whether content looks like binary data
func IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	sample := content
	if len(sample) > sniffLen {
		sample = sample[:sniffLen]
	}

	for _, magic := range binaryMagic {
		if bytes.HasPrefix(sample, magic) {
			return true
		}
	}

	// Text never carries NUL bytes; more than 1% is conclusive
	nullBytes := 0
	nonPrintable := 0
	for _, b := range sample {
		if b == 0 {
			nullBytes++
		}
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != '\f' {
			nonPrintable++
		}
	}

	if nullBytes > len(sample)/100 {
		return true
	}
	return nonPrintable > len(sample)*30/100
}
