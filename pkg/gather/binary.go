package gather

import "bytes"

const (
	// binarySampleSize is how many leading bytes are inspected per file.
	binarySampleSize = 4096

	// binaryNonPrintableMax is the non-printable ratio above which content
	// is classified as binary.
	binaryNonPrintableMax = 0.30
)

// IsBinary classifies a byte sample as binary content: any null byte, or
// more than 30% non-printable bytes. Empty samples are text.
func IsBinary(sample []byte) bool {
	if len(sample) > binarySampleSize {
		sample = sample[:binarySampleSize]
	}
	if len(sample) == 0 {
		return false
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}
	nonPrintable := 0
	for _, b := range sample {
		if !isPrintable(b) {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(sample)) > binaryNonPrintableMax
}

// isPrintable treats ASCII text plus common whitespace as printable. UTF-8
// continuation bytes count as printable so multibyte text is not
// misclassified.
func isPrintable(b byte) bool {
	return (b >= 32 && b <= 126) || b == '\n' || b == '\r' || b == '\t' || b >= 0x80
}
