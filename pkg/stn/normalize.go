package stn

// RawRecord is one record as the STN API returns it: field values are
// scalars, or lists holding zero or one scalar.
type RawRecord map[string]any

// Record is a normalized record: every unit-length list collapsed to its
// element, every empty list replaced by nil.
type Record map[string]any

// Normalize flattens the single-element-list convention of the STN API.
// A 1-element list becomes its sole element, an empty list becomes nil,
// and anything else (scalars, lists of two or more) passes through
// unchanged. The input map is not mutated. Normalizing an already
// normalized record is a no-op.
func Normalize(r RawRecord) Record {
	out := make(Record, len(r))
	for k, v := range r {
		list, ok := v.([]any)
		if !ok {
			out[k] = v
			continue
		}
		switch len(list) {
		case 0:
			out[k] = nil
		case 1:
			out[k] = list[0]
		default:
			out[k] = list
		}
	}
	return out
}

// NormalizeAll normalizes a full response. Output order and length match
// the input exactly.
func NormalizeAll(rs []RawRecord) []Record {
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = Normalize(r)
	}
	return out
}
