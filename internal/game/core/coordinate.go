package core

import "fmt"

// Coordinate represents a position on the game board
type Coordinate struct {
	Row, Col int
}

// NewCoordinate creates a new coordinate with the given row and column
func NewCoordinate(row, col int) Coordinate {
	return Coordinate{Row: row, Col: col}
}

// FromIndex creates a coordinate from a board array index using row-major ordering
func FromIndex(idx, size int) Coordinate {
	return Coordinate{
		Row: idx / size,
		Col: idx % size,
	}
}

// IsValid checks if the coordinate lies on a size x size grid
func (c Coordinate) IsValid(size int) bool {
	return c.Row >= 0 && c.Row < size && c.Col >= 0 && c.Col < size
}

// ToIndex converts the coordinate to a board array index using row-major ordering
func (c Coordinate) ToIndex(size int) int {
	return c.Row*size + c.Col
}

// Neighbors returns the four orthogonal neighbors of this coordinate
func (c Coordinate) Neighbors() []Coordinate {
	return []Coordinate{
		{Row: c.Row - 1, Col: c.Col}, // up
		{Row: c.Row, Col: c.Col + 1}, // right
		{Row: c.Row + 1, Col: c.Col}, // down
		{Row: c.Row, Col: c.Col - 1}, // left
	}
}

// ValidNeighbors returns only the neighbors that lie on a size x size grid
func (c Coordinate) ValidNeighbors(size int) []Coordinate {
	neighbors := c.Neighbors()
	valid := make([]Coordinate, 0, 4)

	for _, n := range neighbors {
		if n.IsValid(size) {
			valid = append(valid, n)
		}
	}

	return valid
}

// Add returns a new coordinate offset by other
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{
		Row: c.Row + other.Row,
		Col: c.Col + other.Col,
	}
}

// String returns a string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}
