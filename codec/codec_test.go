package codec

import (
	"bytes"
	"testing"
)

func payloadFixture() Payload {
	return Payload{
		Leaf:     true,
		Counts:   []uint32{1, 1, 1},
		Keys:     []string{"a", "b", "c"},
		Children: []string{"cid-a", "cid-b", "cid-c"},
		Keyed:    true,
	}
}

func TestCodecsAreDeterministic(t *testing.T) {
	for _, c := range []Codec{DagCBOR(), DagJSON()} {
		c := c
		t.Run(c.Name(), func(t *testing.T) {
			a, err := c.Encode(payloadFixture())
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			b, err := c.Encode(payloadFixture())
			if err != nil {
				t.Fatalf("Encode(2): %v", err)
			}
			if !bytes.Equal(a, b) {
				t.Fatalf("equal payloads must encode to equal bytes")
			}
		})
	}
}

func TestCodecsDistinguishListAndMapTuples(t *testing.T) {
	for _, c := range []Codec{DagCBOR(), DagJSON()} {
		c := c
		t.Run(c.Name(), func(t *testing.T) {
			list := Payload{Counts: []uint32{}, Children: []string{}}
			mp := Payload{Counts: []uint32{}, Keys: []string{}, Children: []string{}, Keyed: true}

			lb, err := c.Encode(list)
			if err != nil {
				t.Fatalf("Encode list: %v", err)
			}
			mb, err := c.Encode(mp)
			if err != nil {
				t.Fatalf("Encode map: %v", err)
			}
			if bytes.Equal(lb, mb) {
				t.Fatalf("empty list and empty map nodes must differ on the wire")
			}

			gotList, err := c.Decode(lb)
			if err != nil {
				t.Fatalf("Decode list: %v", err)
			}
			if gotList.Keyed {
				t.Fatalf("3-tuple must decode as unkeyed")
			}
			gotMap, err := c.Decode(mb)
			if err != nil {
				t.Fatalf("Decode map: %v", err)
			}
			if !gotMap.Keyed {
				t.Fatalf("4-tuple must decode as keyed")
			}
		})
	}
}

func TestCodecsRejectMalformed(t *testing.T) {
	for _, c := range []Codec{DagCBOR(), DagJSON()} {
		c := c
		t.Run(c.Name(), func(t *testing.T) {
			cases := [][]byte{
				nil,
				[]byte("not a node"),
				{0xff, 0xfe},
			}
			for _, b := range cases {
				if _, err := c.Decode(b); err == nil {
					t.Fatalf("Decode(%q) must fail", b)
				}
			}
		})
	}
}

func TestByCode(t *testing.T) {
	if c, ok := ByCode(0x71); !ok || c.Name() != "dag-cbor" {
		t.Fatalf("ByCode(0x71) = %v, %v", c, ok)
	}
	if c, ok := ByCode(0x0129); !ok || c.Name() != "dag-json" {
		t.Fatalf("ByCode(0x0129) = %v, %v", c, ok)
	}
	if _, ok := ByCode(0x55); ok {
		t.Fatalf("raw is not a node codec")
	}
}
