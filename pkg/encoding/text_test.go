package encoding

import (
	"errors"
	"testing"

	"golang.org/x/text/encoding/korean"
)

func TestDecodeUTF8StripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("image tex.dds")...)

	got, err := Decode(data, "")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != "image tex.dds" {
		t.Errorf("expected BOM stripped, got %q", got)
	}
}

func TestDecodeEUCKR(t *testing.T) {
	want := "image 유저인터페이스.bmp"
	data, err := korean.EUCKR.NewEncoder().Bytes([]byte(want))
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	got, err := Decode(data, "EUC-KR")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("latin-9")
	if !errors.Is(err, ErrUnknownEncoding) {
		t.Errorf("expected ErrUnknownEncoding, got %v", err)
	}
}
