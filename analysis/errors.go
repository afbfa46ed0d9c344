package analysis

import "fmt"

// ErrShapeMismatch indicates that an inserted vector or an initial batch
// disagrees with the shape established by the repository. What names the
// offending quantity.
type ErrShapeMismatch struct {
	What     string
	Expected int
	Got      int
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("shape mismatch: %s expected %d, got %d", e.What, e.Expected, e.Got)
}
