package trie

import (
	"bytes"
	"testing"
)

func TestUnpackPackRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0xab},
		{0x12, 0x34, 0x56},
		{0xff, 0x00, 0xff, 0x00},
	}
	for _, key := range cases {
		n := UnpackNibbles(key)
		if len(n) != len(key)*2 {
			t.Fatalf("UnpackNibbles(%x) has %d nibbles, want %d", key, len(n), len(key)*2)
		}
		packed := n.Pack()
		if !bytes.Equal(packed, key) {
			t.Fatalf("Pack(Unpack(%x)) = %x, want %x", key, packed, key)
		}
	}
}

func TestNibblesEqualAndCommonPrefix(t *testing.T) {
	a := Nibbles{1, 2, 3, 4}
	b := Nibbles{1, 2, 3, 4}
	c := Nibbles{1, 2, 9, 4}

	if !a.Equal(b) {
		t.Fatal("identical nibble paths reported unequal")
	}
	if a.Equal(c) {
		t.Fatal("differing nibble paths reported equal")
	}
	if got := a.CommonPrefixLen(c); got != 2 {
		t.Fatalf("CommonPrefixLen = %d, want 2", got)
	}
	if got := a.CommonPrefixLen(Nibbles{1, 2, 3, 4, 5}); got != 4 {
		t.Fatalf("CommonPrefixLen with longer path = %d, want 4", got)
	}
}

func TestHexPrefixRoundTrip(t *testing.T) {
	cases := []struct {
		path        Nibbles
		terminating bool
	}{
		{Nibbles{}, true},
		{Nibbles{}, false},
		{Nibbles{1}, true},
		{Nibbles{1}, false},
		{Nibbles{1, 2}, true},
		{Nibbles{1, 2, 3}, false},
		{Nibbles{0xf, 0xe, 0xd, 0xc, 0xb}, true},
	}
	for _, c := range cases {
		enc := hexPrefixEncode(c.path, c.terminating)
		path, terminating := hexPrefixDecode(enc)
		if terminating != c.terminating {
			t.Fatalf("hexPrefixDecode(encode(%v, %v)) terminating = %v", c.path, c.terminating, terminating)
		}
		if !path.Equal(c.path) && !(len(path) == 0 && len(c.path) == 0) {
			t.Fatalf("hexPrefixDecode(encode(%v, %v)) path = %v, want %v", c.path, c.terminating, path, c.path)
		}
	}
}

func TestNibblesCloneIsIndependent(t *testing.T) {
	orig := Nibbles{1, 2, 3}
	clone := orig.Clone()
	clone[0] = 9
	if orig[0] == 9 {
		t.Fatal("mutating a clone mutated the original")
	}
}
