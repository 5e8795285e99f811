package hwio

import (
	"errors"
	"fmt"
)

var ErrInvalidRegion = errors.New("invalid region")

// InvalidRegionError reports an access to an address no region claims.
type InvalidRegionError struct {
	Bus  string
	Addr uint16
}

func (e *InvalidRegionError) Error() string {
	return fmt.Sprintf("%s bus: no region mapped at $%04X", e.Bus, e.Addr)
}

func (e *InvalidRegionError) Is(target error) bool {
	return target == ErrInvalidRegion
}
