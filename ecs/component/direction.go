package component

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownValue = errors.New("component: unknown value")

// Direction names a wall of a room, and the way the player travels through a
// door on it.
type Direction string

const (
	DirUp    Direction = "UP"
	DirDown  Direction = "DOWN"
	DirLeft  Direction = "LEFT"
	DirRight Direction = "RIGHT"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToUpper(strings.TrimSpace(s))); d {
	case DirUp, DirDown, DirLeft, DirRight:
		return d, nil
	default:
		return "", fmt.Errorf("%w: direction %q", ErrUnknownValue, s)
	}
}

// Vertical reports whether d moves along the y axis.
func (d Direction) Vertical() bool {
	return d == DirUp || d == DirDown
}

// Sign is -1 for up and left, 1 for down and right.
func (d Direction) Sign() float64 {
	switch d {
	case DirUp, DirLeft:
		return -1
	case DirDown, DirRight:
		return 1
	default:
		panic(fmt.Sprintf("component: unreachable direction %q", string(d)))
	}
}

// Unit returns the unit vector of d in screen coordinates (y grows down).
func (d Direction) Unit() (float64, float64) {
	if d.Vertical() {
		return 0, d.Sign()
	}
	return d.Sign(), 0
}
