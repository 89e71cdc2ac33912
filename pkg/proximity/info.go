package proximity

// DefaultProximityCost is the cost of a proximity candidate when no geometry is known.
const DefaultProximityCost = 10

// Key is one candidate key for an input position. Cost is the score demotion, in
// percent, of accepting this key instead of the primary one.
type Key struct {
	Code rune
	Cost int
}

// Info is the keyboard collaborator consulted by the search.
type Info interface {
	// Keys returns the candidates of pos, primary key first with zero cost.
	Keys(in *Input, pos int) []Key
	// HasSpaceProximity reports whether the tap at pos may have been meant for the space bar.
	HasSpaceProximity(in *Input, pos int) bool
}

// CodesInfo trusts the candidate codes carried by the Input.
type CodesInfo struct {
	Cost int
}

func (c CodesInfo) Keys(in *Input, pos int) []Key {
	cost := c.Cost
	if cost <= 0 {
		cost = DefaultProximityCost
	}
	codes := in.Codes[pos]
	keys := make([]Key, len(codes))
	for i, code := range codes {
		keys[i] = Key{Code: code}
		if i > 0 {
			keys[i].Cost = cost
		}
	}
	return keys
}

func (c CodesInfo) HasSpaceProximity(in *Input, pos int) bool {
	for _, code := range in.Codes[pos] {
		if code == ' ' {
			return true
		}
	}
	return false
}
