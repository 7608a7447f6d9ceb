package codec

import (
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// DagCBOR returns the DAG-CBOR node codec (multicodec 0x71).
//
// Encoding uses CBOR Core Deterministic Encoding so that equal payloads
// yield equal bytes, which the whole canonicalization story rests on.
func DagCBOR() Codec { return dagCBOR{} }

type dagCBOR struct{}

func (dagCBOR) Name() string { return "dag-cbor" }
func (dagCBOR) Code() uint64 { return 0x71 }

var (
	cborEncOnce sync.Once
	cborEnc     cbor.EncMode
	cborDec     cbor.DecMode
)

func cborModes() (cbor.EncMode, cbor.DecMode) {
	cborEncOnce.Do(func() {
		var err error
		cborEnc, err = cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			panic(fmt.Sprintf("codec: cbor enc mode: %v", err))
		}
		cborDec, err = cbor.DecOptions{}.DecMode()
		if err != nil {
			panic(fmt.Sprintf("codec: cbor dec mode: %v", err))
		}
	})
	return cborEnc, cborDec
}

type cborListNode struct {
	_        struct{} `cbor:",toarray"`
	Leaf     bool
	Counts   []uint32
	Children []string
}

type cborMapNode struct {
	_        struct{} `cbor:",toarray"`
	Leaf     bool
	Counts   []uint32
	Keys     []string
	Children []string
}

func (dagCBOR) Encode(p Payload) ([]byte, error) {
	enc, _ := cborModes()
	if p.Keyed {
		return enc.Marshal(cborMapNode{
			Leaf:     p.Leaf,
			Counts:   nonNilU32(p.Counts),
			Keys:     nonNilStr(p.Keys),
			Children: nonNilStr(p.Children),
		})
	}
	return enc.Marshal(cborListNode{
		Leaf:     p.Leaf,
		Counts:   nonNilU32(p.Counts),
		Children: nonNilStr(p.Children),
	})
}

func (dagCBOR) Decode(b []byte) (Payload, error) {
	_, dec := cborModes()
	var raw []cbor.RawMessage
	if err := dec.Unmarshal(b, &raw); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var p Payload
	switch len(raw) {
	case 3:
	case 4:
		p.Keyed = true
	default:
		return Payload{}, fmt.Errorf("%w: %d-tuple", ErrMalformed, len(raw))
	}

	if err := dec.Unmarshal(raw[0], &p.Leaf); err != nil {
		return Payload{}, fmt.Errorf("%w: leaf: %v", ErrMalformed, err)
	}
	if err := dec.Unmarshal(raw[1], &p.Counts); err != nil {
		return Payload{}, fmt.Errorf("%w: counts: %v", ErrMalformed, err)
	}
	i := 2
	if p.Keyed {
		if err := dec.Unmarshal(raw[2], &p.Keys); err != nil {
			return Payload{}, fmt.Errorf("%w: keys: %v", ErrMalformed, err)
		}
		i = 3
	}
	if err := dec.Unmarshal(raw[i], &p.Children); err != nil {
		return Payload{}, fmt.Errorf("%w: children: %v", ErrMalformed, err)
	}
	return p, nil
}

func nonNilU32(v []uint32) []uint32 {
	if v == nil {
		return []uint32{}
	}
	return v
}

func nonNilStr(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
