package domain

import "fmt"

// ReferenceOutOfRangeError reports a fixture placeholder that points past the
// end of its target array. The loader checks bounds before inserting anything,
// so hitting this never leaves partial rows behind.
type ReferenceOutOfRangeError struct {
	Entity    string // entity group holding the bad reference, e.g. "watchhistory"
	Field     string // referencing field, e.g. "user_id"
	Row       int    // 0-based position within the entity group
	Index     int64  // the 1-based placeholder value
	Available int    // number of target rows actually present
}

func (e *ReferenceOutOfRangeError) Error() string {
	return fmt.Sprintf("%s[%d].%s references position %d but only %d targets exist",
		e.Entity, e.Row, e.Field, e.Index, e.Available)
}
