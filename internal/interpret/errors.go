package interpret

import "fmt"

// MalformedMotifIDError reports a compound motif id that does not split into
// exactly two non-empty parts on a single '-'. It aborts the whole batch.
type MalformedMotifIDError struct {
	MotifID string
	Pos     int64
	Row     int // 0-based row index within the batch
}

func (e *MalformedMotifIDError) Error() string {
	return fmt.Sprintf("malformed compound motif id %q at row %d (POS %d): expected left-right", e.MotifID, e.Row, e.Pos)
}

// MissingDepthFieldsError reports a call whose sample column does not hold a
// usable depth triple. It is recoverable: the row is dropped before scoring.
type MissingDepthFieldsError struct {
	MotifID string
	Pos     int64
	Ref     string
	Alt     string
	Sample  string
	Err     error
}

func (e *MissingDepthFieldsError) Error() string {
	return fmt.Sprintf("missing depth fields for %s:%d %s>%s (sample %q): %v",
		e.MotifID, e.Pos, e.Ref, e.Alt, e.Sample, e.Err)
}

func (e *MissingDepthFieldsError) Unwrap() error {
	return e.Err
}
