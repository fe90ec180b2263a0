package machine

import "math/bits"

// KeyCount is the number of keys of the hex keypad.
const KeyCount = 16

// Keypad contains the key-down state of the 16 hex keys as a bit mask.
type Keypad struct {
	state uint16
}

// Press marks the key as held down.
func (k *Keypad) Press(key uint8) {
	k.state |= 1 << (key & 0xF)
}

// Release marks the key as released.
func (k *Keypad) Release(key uint8) {
	k.state &^= 1 << (key & 0xF)
}

// Set changes the state of the key.
func (k *Keypad) Set(key uint8, down bool) {
	if down {
		k.Press(key)
	} else {
		k.Release(key)
	}
}

// IsDown returns whether the key is held down.
func (k *Keypad) IsDown(key uint8) bool {
	return k.state&(1<<(key&0xF)) != 0
}

// State returns the bit mask of all held down keys.
func (k *Keypad) State() uint16 {
	return k.state
}

// lowestKey returns the lowest key set in the mask.
func lowestKey(mask uint16) uint8 {
	return uint8(bits.TrailingZeros16(mask))
}
