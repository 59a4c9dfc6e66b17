package editor

import "math"

// Bounds the editor clamps requested values to before writing them.
const (
	MaxSeats        = 32 // vehicles refuse more guests, leaving them stuck at the entrance
	MaxMass         = 65535
	MaxPoweredValue = 256
)

// Sound range ids.
const (
	SoundScreams1And8 = 0
	SoundScreams1To7  = 1
	SoundScreams1And6 = 2
	SoundWhistle      = 3
	SoundBell         = 4
	SoundNone         = 255
)

// SoundRanges lists every supported sound range id in presentation order.
var SoundRanges = []int{SoundScreams1And8, SoundScreams1To7, SoundScreams1And6, SoundWhistle, SoundBell, SoundNone}

var soundRangeNames = map[int]string{
	SoundScreams1And8: "Screams 1 and 8",
	SoundScreams1To7:  "Screams 1-7",
	SoundScreams1And6: "Screams 1 and 6",
	SoundWhistle:      "Whistle",
	SoundBell:         "Bell",
	SoundNone:         "No Sound",
}

// SoundRangeName returns the label of a sound range id.
func SoundRangeName(id int) string {
	if name, ok := soundRangeNames[id]; ok {
		return name
	}
	return "Unknown"
}

// NormalizeSoundRange maps any id onto the supported set. Negative ids become
// the first sound; ids past the documented ones disable sound.
func NormalizeSoundRange(id int) int {
	switch {
	case id < SoundScreams1And8:
		return SoundScreams1And8
	case id <= SoundBell:
		return id
	default:
		return SoundNone
	}
}

// SoundRangeSlot returns the position of a sound range id in SoundRanges.
func SoundRangeSlot(id int) int {
	id = NormalizeSoundRange(id)
	if id == SoundNone {
		return len(SoundRanges) - 1
	}
	return id
}

// SoundRangeFromSlot is the inverse of SoundRangeSlot. Slots are clamped.
func SoundRangeFromSlot(slot int) int {
	return SoundRanges[clamp(slot, 0, len(SoundRanges)-1)]
}

// wrapVariant keeps a variant inside [0, count), wrapping around at both ends.
func wrapVariant(variant, count int) int {
	if count <= 0 {
		return 0
	}
	variant %= count
	if variant < 0 {
		variant += count
	}
	return variant
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ToEnd is an end index that always reaches the last vehicle of a train.
const ToEnd = math.MaxInt
