package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Multicodec codes used by this repo.
const (
	CodecRaw     = cid.Raw
	CodecDagCBOR = cid.DagCBOR
	CodecDagJSON = uint64(0x0129)
)

// Deriver maps bytes to CIDv1s for a fixed (codec, multihash) pair.
//
// A CAS adapter owns exactly one Deriver; every object it stores is
// addressed through it. Two stores with the same Deriver assign the same
// CID to the same bytes.
type Deriver struct {
	Codec  uint64
	MhType uint64
}

// DagCBORSHA256 is the default Deriver for node blocks.
func DagCBORSHA256() Deriver { return Deriver{Codec: CodecDagCBOR, MhType: multihash.SHA2_256} }

// DagCBORBlake3 derives node CIDs with blake3 instead of sha2-256.
func DagCBORBlake3() Deriver { return Deriver{Codec: CodecDagCBOR, MhType: multihash.BLAKE3} }

// RawSHA256 is the conventional Deriver for opaque value blocks.
func RawSHA256() Deriver { return Deriver{Codec: CodecRaw, MhType: multihash.SHA2_256} }

// Sum returns the CIDv1 of data under the Deriver's codec and hash.
func (d Deriver) Sum(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, d.MhType, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(d.Codec, sum), nil
}

// Verify recomputes id from data using id's own prefix and reports whether
// they match. This checks any (codec, hash) pair without knowing the
// Deriver that produced id.
func Verify(id cid.Cid, data []byte) bool {
	if !id.Defined() {
		return false
	}
	got, err := id.Prefix().Sum(data)
	if err != nil {
		return false
	}
	return got.Equals(id)
}

// CIDv1RawSHA256 returns a CIDv1 string using the "raw" multicodec
// and a sha2-256 multihash.
func CIDv1RawSHA256(data []byte) string {
	id, err := RawSHA256().Sum(data)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1 length,
		// this should be unreachable.
		return ""
	}
	return id.String()
}

// CIDv1RawSHA256CID returns a CIDv1 (raw + sha2-256) derived from data.
func CIDv1RawSHA256CID(data []byte) (cid.Cid, error) {
	return RawSHA256().Sum(data)
}
