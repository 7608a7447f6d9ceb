package cidutil

import (
	"testing"

	"github.com/ipfs/go-cid"
)

func TestDeriverSumAndVerify(t *testing.T) {
	data := []byte("derive me")
	for _, d := range []Deriver{DagCBORSHA256(), DagCBORBlake3(), RawSHA256()} {
		id, err := d.Sum(data)
		if err != nil {
			t.Fatalf("Sum(%s): %v", d.Name(), err)
		}
		if !id.Defined() {
			t.Fatalf("Sum(%s): undefined CID", d.Name())
		}
		if id.Prefix().Codec != d.Codec {
			t.Fatalf("Sum(%s): codec mismatch", d.Name())
		}
		if !Verify(id, data) {
			t.Fatalf("Verify(%s): false for matching bytes", d.Name())
		}
		if Verify(id, []byte("other bytes")) {
			t.Fatalf("Verify(%s): true for different bytes", d.Name())
		}
	}
	if Verify(cid.Undef, data) {
		t.Fatalf("Verify must reject undefined CIDs")
	}
}

func TestParseDeriverRoundTrip(t *testing.T) {
	for _, name := range []string{"dag-cbor+sha2-256", "dag-json+blake3", "raw+sha2-256"} {
		d, err := ParseDeriver(name)
		if err != nil {
			t.Fatalf("ParseDeriver(%q): %v", name, err)
		}
		if d.Name() != name {
			t.Fatalf("round trip: %q -> %q", name, d.Name())
		}
	}

	for _, bad := range []string{"", "dag-cbor", "dag-cbor+md5", "carrier-pigeon+sha2-256"} {
		if _, err := ParseDeriver(bad); err == nil {
			t.Fatalf("ParseDeriver(%q) must fail", bad)
		}
	}
}

func TestCIDv1RawSHA256MatchesDeriver(t *testing.T) {
	data := []byte("legacy helper")
	id, err := CIDv1RawSHA256CID(data)
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID: %v", err)
	}
	want, err := RawSHA256().Sum(data)
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if id != want {
		t.Fatalf("helper and deriver disagree")
	}
	if CIDv1RawSHA256(data) != want.String() {
		t.Fatalf("string helper disagrees")
	}
}
