package kernel

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Coordinate represents a position value on the service-area grid.
// Valid coordinates range from LocationMinX/Y to LocationMaxX/Y inclusive.
type Coordinate int8

const (
	// LocationMinX is the minimum valid X coordinate on the service-area grid.
	LocationMinX Coordinate = 1
	// LocationMinY is the minimum valid Y coordinate on the service-area grid.
	LocationMinY Coordinate = 1
	// LocationMaxX is the maximum valid X coordinate on the service-area grid.
	LocationMaxX Coordinate = 10
	// LocationMaxY is the maximum valid Y coordinate on the service-area grid.
	LocationMaxY Coordinate = 10
)

// ErrLocationIsNotConstructed is returned when attempting to use an improperly
// initialized Location. Locations must be created using NewLocation or
// NewRandomLocation to ensure validity.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation or NewRandomLocation constructors")

// Location represents a point on the service-area grid with validated coordinates.
// It is an immutable value object; the zero value is invalid and fails validation.
//
// Locations serve two roles in the fulfillment domain: the destination of an
// order and the last reported position of a delivery partner. The distance
// between the two feeds delivery-window confidence and candidate ranking.
type Location struct { //nolint:recvcheck //using for validation
	x     Coordinate
	y     Coordinate
	guard guard.ConstructorGuard
}

// NewLocation creates a Location with the specified coordinates.
// Both coordinates must be within the valid grid bounds.
func NewLocation(x Coordinate, y Coordinate) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setX(x), loc.setY(y)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// NewRandomLocation creates a Location with random in-bounds coordinates.
// Useful for tests and simulated partner positions.
func NewRandomLocation() (Location, error) {
	x := Coordinate(rand.IntN(int(LocationMaxX-LocationMinX+1)) + int(LocationMinX)) //nolint:gosec // it's ok
	y := Coordinate(rand.IntN(int(LocationMaxY-LocationMinY+1)) + int(LocationMinY)) //nolint:gosec // it's ok
	return NewLocation(x, y)
}

// Validate checks if the Location was properly constructed using a constructor.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// X returns the X coordinate of the location.
func (l Location) X() Coordinate {
	return l.x
}

// Y returns the Y coordinate of the location.
func (l Location) Y() Coordinate {
	return l.y
}

// String returns the "Location(x,y)" representation, implementing fmt.Stringer.
func (l Location) String() string {
	return fmt.Sprintf("Location(%d,%d)", l.x, l.y)
}

// IsEqual compares two locations for equality.
// Both locations must be properly constructed for the comparison to succeed.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l == other, nil
}

// Distance calculates the Manhattan distance between two locations:
// |x1-x2| + |y1-y2|. Both locations must be properly constructed.
func (l Location) Distance(other Location) (int, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	dx := int(l.x) - int(other.x)
	if dx < 0 {
		dx = -dx
	}

	dy := int(l.y) - int(other.y)
	if dy < 0 {
		dy = -dy
	}

	return dx + dy, nil
}

func (l *Location) setX(x Coordinate) error {
	if x < LocationMinX || x > LocationMaxX {
		return errs.NewValueIsOutOfRangeError("x", x, LocationMinX, LocationMaxX)
	}
	l.x = x
	return nil
}

func (l *Location) setY(y Coordinate) error {
	if y < LocationMinY || y > LocationMaxY {
		return errs.NewValueIsOutOfRangeError("y", y, LocationMinY, LocationMaxY)
	}
	l.y = y
	return nil
}
