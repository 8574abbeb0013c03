package revstore

import (
	"fmt"
	"strings"
)

// Selection filters resolved snapshots by their active flag.
type Selection string

const (
	SelectionActive   Selection = "active"
	SelectionInactive Selection = "inactive"
	SelectionAll      Selection = "all"
)

// ParseSelection normalizes a caller-supplied selection. Empty means active,
// the default listing behavior.
func ParseSelection(raw string) (Selection, error) {
	switch Selection(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SelectionActive:
		return SelectionActive, nil
	case SelectionInactive:
		return SelectionInactive, nil
	case SelectionAll:
		return SelectionAll, nil
	default:
		return "", fmt.Errorf("unknown selection %q", raw)
	}
}

// activeFilter returns the active value to filter on and whether filtering
// applies at all.
func (s Selection) activeFilter() (bool, bool) {
	switch s {
	case SelectionActive:
		return true, true
	case SelectionInactive:
		return false, true
	default:
		return false, false
	}
}
