package machine

// Display dimensions in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Display is the monochrome framebuffer. Every row is stored as a bit mask
// with the leftmost pixel in the most significant bit. Only the machine
// modifies the display, renderers use the read methods.
type Display struct {
	rows    [DisplayHeight]uint64
	version uint64
}

// Pixel returns whether the pixel at the given coordinates is set.
// Coordinates outside of the screen are reported as unset.
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}
	return d.rows[y]&(1<<(DisplayWidth-1-x)) != 0
}

// Rows returns a copy of all rows.
func (d *Display) Rows() [DisplayHeight]uint64 {
	return d.rows
}

// Version returns a counter that changes every time the display is modified.
func (d *Display) Version() uint64 {
	return d.version
}

// Lit returns the number of set pixels.
func (d *Display) Lit() int {
	var count int
	for _, row := range d.rows {
		for ; row != 0; row &= row - 1 {
			count++
		}
	}
	return count
}

func (d *Display) clear() {
	d.rows = [DisplayHeight]uint64{}
	d.version++
}

// draw XORs an 8 pixel wide sprite onto the display. The start position wraps
// around the screen edges, sprite pixels beyond the right or bottom edge are
// clipped. It returns true if any set pixel was cleared.
func (d *Display) draw(x, y uint8, sprite []byte) bool {
	startX := int(x) % DisplayWidth
	startY := int(y) % DisplayHeight

	var collision bool
	for i, line := range sprite {
		row := startY + i
		if row >= DisplayHeight {
			break
		}

		// shifting right drops the pixels that do not fit on the line
		mask := uint64(line) << (DisplayWidth - 8) >> startX
		if d.rows[row]&mask != 0 {
			collision = true
		}
		d.rows[row] ^= mask
	}
	d.version++
	return collision
}
