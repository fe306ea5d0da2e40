package selection

import "strconv"

// HitKey identifies one HSP across every view of a result window.
// Two HSPs with the same accession and ordinal are the same selectable
// entity even when they come from different result objects.
type HitKey string

// MakeKey builds the key for the hspOrdinal-th HSP of the hit with the given accession.
// An empty accession yields a key that will not match any index entry.
func MakeKey(accession string, hspOrdinal int) HitKey {
	return HitKey(accession + "_" + strconv.Itoa(hspOrdinal))
}

func (k HitKey) String() string { return string(k) }
