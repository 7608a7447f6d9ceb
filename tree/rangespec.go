package tree

// ScanOptions bound a range scan. The zero value scans everything in
// ascending rank order.
//
// Rank bounds apply to both collections: Lo is the start rank inclusive,
// Hi the end rank exclusive (nil means the size). Key bounds apply to
// maps only: LT starts strictly after the given key, LE at or after it;
// GT stops before the equal key, GE before the first greater key. Limit
// caps the number of items yielded (0 means no cap).
type ScanOptions struct {
	Lo    uint64
	Hi    *uint64
	LT    *string
	LE    *string
	GT    *string
	GE    *string
	Limit uint64
}

// scanPlan is the parsed form the cursor executes.
type scanPlan struct {
	lo    uint64
	hi    *uint64
	limit uint64

	startKey *string
	// skipEqual distinguishes LT (start strictly after the key) from LE.
	skipEqual bool

	stopKey *string
	// stopInclusive distinguishes GE (yield the equal key) from GT.
	stopInclusive bool
}

// plan validates the options. keyed=false rejects key bounds outright.
func (o ScanOptions) plan(keyed bool) (scanPlan, error) {
	p := scanPlan{lo: o.Lo, hi: o.Hi, limit: o.Limit}

	if !keyed {
		if o.LT != nil || o.LE != nil || o.GT != nil || o.GE != nil {
			return scanPlan{}, ErrInvalidRange
		}
		return p, nil
	}

	switch {
	case o.LT != nil && o.LE != nil:
		return scanPlan{}, ErrInvalidRange
	case o.LT != nil:
		p.startKey, p.skipEqual = o.LT, true
	case o.LE != nil:
		p.startKey = o.LE
	}

	switch {
	case o.GT != nil && o.GE != nil:
		return scanPlan{}, ErrInvalidRange
	case o.GT != nil:
		p.stopKey = o.GT
	case o.GE != nil:
		p.stopKey, p.stopInclusive = o.GE, true
	}

	return p, nil
}
