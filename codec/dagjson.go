package codec

import (
	"encoding/json"
	"fmt"
)

// DagJSON returns the DAG-JSON node codec (multicodec 0x0129).
//
// The payload is positional arrays only, so encoding/json is already
// deterministic here; no key-ordering pass is needed.
func DagJSON() Codec { return dagJSON{} }

type dagJSON struct{}

func (dagJSON) Name() string { return "dag-json" }
func (dagJSON) Code() uint64 { return 0x0129 }

func (dagJSON) Encode(p Payload) ([]byte, error) {
	var tuple []any
	if p.Keyed {
		tuple = []any{p.Leaf, nonNilU32(p.Counts), nonNilStr(p.Keys), nonNilStr(p.Children)}
	} else {
		tuple = []any{p.Leaf, nonNilU32(p.Counts), nonNilStr(p.Children)}
	}
	return json.Marshal(tuple)
}

func (dagJSON) Decode(b []byte) (Payload, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
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

	if err := json.Unmarshal(raw[0], &p.Leaf); err != nil {
		return Payload{}, fmt.Errorf("%w: leaf: %v", ErrMalformed, err)
	}
	if err := json.Unmarshal(raw[1], &p.Counts); err != nil {
		return Payload{}, fmt.Errorf("%w: counts: %v", ErrMalformed, err)
	}
	i := 2
	if p.Keyed {
		if err := json.Unmarshal(raw[2], &p.Keys); err != nil {
			return Payload{}, fmt.Errorf("%w: keys: %v", ErrMalformed, err)
		}
		i = 3
	}
	if err := json.Unmarshal(raw[i], &p.Children); err != nil {
		return Payload{}, fmt.Errorf("%w: children: %v", ErrMalformed, err)
	}
	return p, nil
}
