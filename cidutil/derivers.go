package cidutil

import (
	"fmt"
	"strings"

	"github.com/multiformats/go-multihash"
)

// DefaultDeriverName is the textual form of the node-block default.
const DefaultDeriverName = "dag-cbor+sha2-256"

var codecNames = map[string]uint64{
	"raw":      CodecRaw,
	"dag-cbor": CodecDagCBOR,
	"dag-json": CodecDagJSON,
}

var mhNames = map[string]uint64{
	"sha2-256": multihash.SHA2_256,
	"blake3":   multihash.BLAKE3,
}

// ParseDeriver parses a "codec+mhtype" name (e.g. "dag-cbor+sha2-256",
// "raw+blake3") into a Deriver. Used by CAS backend flags and configs.
func ParseDeriver(name string) (Deriver, error) {
	codecName, mhName, ok := strings.Cut(name, "+")
	if !ok {
		return Deriver{}, fmt.Errorf("cidutil: deriver %q: want codec+mhtype", name)
	}
	codec, ok := codecNames[codecName]
	if !ok {
		return Deriver{}, fmt.Errorf("cidutil: unknown codec %q", codecName)
	}
	mh, ok := mhNames[mhName]
	if !ok {
		return Deriver{}, fmt.Errorf("cidutil: unknown multihash %q", mhName)
	}
	return Deriver{Codec: codec, MhType: mh}, nil
}

// Name returns the textual codec+mhtype form, or "" for an unknown pair.
func (d Deriver) Name() string {
	var cn, mn string
	for n, c := range codecNames {
		if c == d.Codec {
			cn = n
		}
	}
	for n, m := range mhNames {
		if m == d.MhType {
			mn = n
		}
	}
	if cn == "" || mn == "" {
		return ""
	}
	return cn + "+" + mn
}
