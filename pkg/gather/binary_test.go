package gather

import (
	"bytes"
	"testing"
)

func TestIsBinaryNullByte(t *testing.T) {
	if !IsBinary([]byte("hello\x00world")) {
		t.Fatalf("content with a null byte must be binary")
	}
}

func TestIsBinaryPlainText(t *testing.T) {
	if IsBinary([]byte("package main\n\nfunc main() {}\n")) {
		t.Fatalf("plain source text must not be binary")
	}
}

func TestIsBinaryEmpty(t *testing.T) {
	if IsBinary(nil) {
		t.Fatalf("empty content is text")
	}
}

func TestIsBinaryControlBytes(t *testing.T) {
	sample := bytes.Repeat([]byte{0x01, 0x02, 0x03}, 100)
	if !IsBinary(sample) {
		t.Fatalf("mostly control bytes must be binary")
	}
}

func TestIsBinaryMultibyteText(t *testing.T) {
	if IsBinary([]byte("日本語のテキストです。コードのコメントにもよく出てくる。")) {
		t.Fatalf("UTF-8 multibyte text must not be binary")
	}
}

func TestIsBinarySampleLimit(t *testing.T) {
	// Null byte past the sample window is not inspected.
	sample := append(bytes.Repeat([]byte("a"), binarySampleSize), 0)
	if IsBinary(sample) {
		t.Fatalf("bytes past the sample window must not affect classification")
	}
}
