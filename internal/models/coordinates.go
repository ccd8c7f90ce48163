package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Coordinates holds a latitude/longitude pair exactly as it was submitted.
type Coordinates struct {
	Latitude  string
	Longitude string
}

// Validate reports whether both values are decimal degrees in range.
func (c Coordinates) Validate() error {
	if err := checkDegrees(c.Latitude, 90); err != nil {
		return fmt.Errorf("%w: latitude %q: %v", ErrInvalidCoordinates, c.Latitude, err)
	}
	if err := checkDegrees(c.Longitude, 180); err != nil {
		return fmt.Errorf("%w: longitude %q: %v", ErrInvalidCoordinates, c.Longitude, err)
	}
	return nil
}

func checkDegrees(raw string, limit float64) error {
	value := strings.TrimSpace(raw)
	if value == "" {
		return errors.New("value is required")
	}
	deg, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return errors.New("not a decimal number")
	}
	if deg < -limit || deg > limit {
		return fmt.Errorf("out of range [-%g, %g]", limit, limit)
	}
	return nil
}
