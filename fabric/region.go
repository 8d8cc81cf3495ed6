package fabric

import "fmt"

// A Region is a rectangular set of tile coordinates sharing one origin. The
// origin is the coordinate the loaded program treats as (0, 0) for relative
// addressing. Regions replace per-coordinate lists so that membership and
// iteration are O(1) and allocation free.
type Region struct {
	Origin        Coordinate
	Width, Height int
}

func (r Region) String() string {
	return fmt.Sprintf("%dx%d@%s", r.Width, r.Height, r.Origin)
}

// NumTiles returns the number of tiles in the region.
func (r Region) NumTiles() int {
	return r.Width * r.Height
}

// Contains reports whether the coordinate is a member of the region.
func (r Region) Contains(c Coordinate) bool {
	return c.X >= r.Origin.X && c.X < r.Origin.X+r.Width &&
		c.Y >= r.Origin.Y && c.Y < r.Origin.Y+r.Height
}

// At returns the i-th coordinate of the region in row-major order. Tiles are
// always visited in this order so that lifecycle operations are
// deterministic.
func (r Region) At(i int) Coordinate {
	return Coordinate{
		X: r.Origin.X + i%r.Width,
		Y: r.Origin.Y + i/r.Width,
	}
}

// Coordinates returns all member coordinates in row-major order.
func (r Region) Coordinates() []Coordinate {
	coords := make([]Coordinate, 0, r.NumTiles())
	for i := 0; i < r.NumTiles(); i++ {
		coords = append(coords, r.At(i))
	}

	return coords
}

// A Slice assigns one tile a contiguous piece of a job's input.
type Slice struct {
	Tile   Coordinate
	Offset int
	Length int
}

// Partition splits total elements across the tiles of the region, in
// row-major tile order. Every tile gets total/NumTiles elements; the last
// tile additionally takes the remainder. An empty region has no slices.
func (r Region) Partition(total int) []Slice {
	n := r.NumTiles()
	if n == 0 {
		return nil
	}
	per := total / n

	slices := make([]Slice, 0, n)
	for i := 0; i < n; i++ {
		s := Slice{
			Tile:   r.At(i),
			Offset: i * per,
			Length: per,
		}
		if i == n-1 {
			s.Length += total % n
		}
		slices = append(slices, s)
	}

	return slices
}
