//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"testing"

	"github.com/jezek/xgb/xproto"
)

func TestOfferTargetsSkipsEmptyPayloads(t *testing.T) {
	offers := map[xproto.Atom][]byte{
		300: []byte("png"),
		31:  []byte("text"),
		400: nil,
	}
	got := offerTargets(offers)
	if len(got) != 2 || got[0] != 31 || got[1] != 300 {
		t.Fatalf("targets = %v", got)
	}
}

func TestTargetsPayload(t *testing.T) {
	buf := atomsToBytes([]xproto.Atom{1, 0x01020304})
	if len(buf) != 8 {
		t.Fatalf("len = %d", len(buf))
	}
	if got := propertyLength(32, buf); got != 2 {
		t.Fatalf("format 32 length = %d, want 2", got)
	}
	if got := propertyLength(8, buf); got != 8 {
		t.Fatalf("format 8 length = %d, want 8", got)
	}
	if buf[4] != 0x04 || buf[7] != 0x01 {
		t.Fatalf("atoms not little endian: %v", buf)
	}
}
