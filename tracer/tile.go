package tracer

import "fmt"

// A rectangular region of the frame.
type Tile struct {
	// Position of the tile in the row-major partition.
	Index int

	X, Y uint32
	W, H uint32
}

func (t Tile) String() string {
	return fmt.Sprintf("tile %d [%d, %d, %d, %d]", t.Index, t.X, t.Y, t.W, t.H)
}

// Get the number of pixels covered by the tile.
func (t Tile) PixelCount() uint32 {
	return t.W * t.H
}

// Split the frame into tiles of at most tileSize x tileSize pixels in
// row-major order. Tiles along the right and bottom edges are clipped to the
// frame so the tiles exactly partition it.
func PartitionTiles(frameW, frameH, tileSize uint32) []Tile {
	if frameW == 0 || frameH == 0 {
		return nil
	}
	if tileSize == 0 {
		tileSize = max(frameW, frameH)
	}

	cols := (frameW + tileSize - 1) / tileSize
	rows := (frameH + tileSize - 1) / tileSize
	tiles := make([]Tile, 0, cols*rows)

	for y := uint32(0); y < frameH; y += tileSize {
		for x := uint32(0); x < frameW; x += tileSize {
			tiles = append(tiles, Tile{
				Index: len(tiles),
				X:     x,
				Y:     y,
				W:     min(tileSize, frameW-x),
				H:     min(tileSize, frameH-y),
			})
		}
	}
	return tiles
}
