package rlp

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"
)

func TestEncodeBytesDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		{0x00},
		{0x7f},
		{0x80},
		[]byte("dog"),
		bytes.Repeat([]byte{0x42}, 55),
		bytes.Repeat([]byte{0x42}, 56),
		bytes.Repeat([]byte{0x42}, 1024),
	}
	for _, b := range cases {
		enc := EncodeBytes(b)
		item, n, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(EncodeBytes(%d bytes)): %v", len(b), err)
		}
		if n != len(enc) {
			t.Fatalf("Decode consumed %d bytes, want %d", n, len(enc))
		}
		if item.IsList() {
			t.Fatalf("EncodeBytes produced a list-decoded item")
		}
		if !bytes.Equal(item.Bytes, b) && !(len(item.Bytes) == 0 && len(b) == 0) {
			t.Fatalf("round trip = %x, want %x", item.Bytes, b)
		}
	}
}

func TestEncodeListDecodeRoundTrip(t *testing.T) {
	items := [][]byte{
		EncodeBytes([]byte("cat")),
		EncodeBytes([]byte("dog")),
		EncodeBytes(bytes.Repeat([]byte{0xaa}, 100)),
	}
	enc := EncodeList(items...)
	decoded, err := DecodeList(enc)
	if err != nil {
		t.Fatalf("DecodeList: %v", err)
	}
	if len(decoded) != len(items) {
		t.Fatalf("decoded %d items, want %d", len(decoded), len(items))
	}
	for i, it := range decoded {
		want, _, _ := Decode(items[i])
		if !bytes.Equal(it.Bytes, want.Bytes) {
			t.Fatalf("item %d = %x, want %x", i, it.Bytes, want.Bytes)
		}
	}
}

func TestDecodeListRejectsString(t *testing.T) {
	if _, err := DecodeList(EncodeBytes([]byte("not a list"))); err != ErrExpectedList {
		t.Fatalf("DecodeList on a string item: err = %v, want ErrExpectedList", err)
	}
}

func TestDecodeTruncatedInput(t *testing.T) {
	enc := EncodeBytes(bytes.Repeat([]byte{1}, 100))
	if _, _, err := Decode(enc[:10]); err == nil {
		t.Fatal("Decode on truncated input returned no error")
	}
}

func TestEncodeFixedSize(t *testing.T) {
	zero := EncodeFixedSize(new(uint256.Int))
	item, _, err := Decode(zero)
	if err != nil {
		t.Fatalf("Decode(EncodeFixedSize(0)): %v", err)
	}
	if len(item.Bytes) != 0 {
		t.Fatalf("EncodeFixedSize(0) decoded to %x, want empty string", item.Bytes)
	}

	v := uint256.NewInt(0x1234)
	enc := EncodeFixedSize(v)
	item, _, err = Decode(enc)
	if err != nil {
		t.Fatalf("Decode(EncodeFixedSize(v)): %v", err)
	}
	got := new(uint256.Int).SetBytes(item.Bytes)
	if got.Cmp(v) != 0 {
		t.Fatalf("EncodeFixedSize round trip = %s, want %s", got, v)
	}
}
