package machine

// Quirks selects between historically divergent instruction behaviors.
type Quirks struct {
	// ShiftUsesVY makes 8XY6 and 8XYE shift VY and store the result in VX,
	// as the COSMAC VIP interpreter did. When unset VX is shifted in place.
	ShiftUsesVY bool

	// LoadStoreIncrementsI makes FX55 and FX65 leave I pointing behind the
	// last accessed byte. When unset I is not modified.
	LoadStoreIncrementsI bool
}

// ModernQuirks returns the behavior of most interpreters written after 1990.
func ModernQuirks() Quirks {
	return Quirks{}
}

// CosmacQuirks returns the behavior of the original COSMAC VIP interpreter.
func CosmacQuirks() Quirks {
	return Quirks{
		ShiftUsesVY:          true,
		LoadStoreIncrementsI: true,
	}
}
