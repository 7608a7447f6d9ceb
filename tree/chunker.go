package tree

import "github.com/ipfs/go-cid"

// Content-defined chunking over child CIDs: a degenerate gear CDC that
// treats each CID as a pre-randomized token. The boundary decision at a
// position depends only on the trailing window of children, so identical
// subsequences emit identical boundaries regardless of surroundings. That
// locality is what makes trees built from equal content identical.
const (
	chunkMin = 64
	chunkMax = 1024

	maskHi uint32 = 0x88000000
	maskLo uint32 = 0x03000000
)

// gearToken is the last 4 bytes of the CID byte form, little-endian. CID
// bytes end in multihash digest bytes, so the token is uniformly random.
func gearToken(c cid.Cid) uint32 {
	b := c.Bytes()
	n := len(b)
	if n < 4 {
		var g uint32
		for i := 0; i < n; i++ {
			g |= uint32(b[i]) << (8 * i)
		}
		return g
	}
	return uint32(b[n-4]) | uint32(b[n-3])<<8 | uint32(b[n-2])<<16 | uint32(b[n-1])<<24
}

// nextBoundary returns the index after the last child of the chunk
// starting at from.
//
// final reports whether the cut is decidable from the data present: a
// gear trigger or the hard cap at chunkMax is final; running out of
// children first is not. The builder takes a non-final tail whole, which
// is correct because nothing follows; the mutator instead extends the
// level with right-hand siblings and retries, preserving canonical
// boundaries across the splice seam. In both non-final cases hi is
// len(children).
func nextBoundary(children []cid.Cid, from int) (hi int, final bool) {
	n := len(children)
	avail := n - from
	if avail > chunkMax {
		avail = chunkMax
	}
	if avail < chunkMin {
		return n, false
	}

	// Rolling 64-bit fingerprint kept as two 32-bit limbs.
	var fhi, flo uint32
	for j := 0; j < avail; j++ {
		g := gearToken(children[from+j])
		sum := uint64(flo)<<1 + uint64(g)
		var carry uint32
		if sum > 0xFFFFFFFF {
			carry = 1
		}
		flo = uint32(sum)
		fhi = fhi<<1 + carry

		// The first chunkMin children only warm the fingerprint up.
		if j < chunkMin {
			continue
		}
		if fhi&maskHi == 0 && flo&maskLo == 0 {
			return from + j + 1, true
		}
	}
	if avail == chunkMax {
		return from + avail, true
	}
	return n, false
}
