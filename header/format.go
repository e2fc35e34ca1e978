package header

import "strings"

// Format identifies a supported on-disk waveform format. The set is
// closed; adding a format means adding a table to the registry.
type Format int

const (
	// Unknown is the zero value for unrecognized format names.
	Unknown Format = iota
	// SAC is the Seismic Analysis Code binary format.
	SAC
	// SH is the Seismic Handler format.
	SH
	// Q is the Seismic Handler Q variant. It reuses the SH header table.
	Q
	// H5 is the hierarchical container format. It stores canonical
	// fields natively, so the codec skips it.
	H5
)

// ParseFormat maps a case-insensitive format name to its tag.
func ParseFormat(name string) Format {
	switch strings.ToLower(name) {
	case "sac":
		return SAC
	case "sh":
		return SH
	case "q":
		return Q
	case "h5", "hdf5":
		return H5
	default:
		return Unknown
	}
}

// String returns the canonical lowercase format name.
func (f Format) String() string {
	switch f {
	case SAC:
		return "sac"
	case SH:
		return "sh"
	case Q:
		return "q"
	case H5:
		return "h5"
	default:
		return "unknown"
	}
}

// normalize resolves format aliases to the format owning the header
// table (Q files carry SH headers).
func (f Format) normalize() Format {
	if f == Q {
		return SH
	}

	return f
}

// Key returns the native sub-mapping key in a trace's stats.
func (f Format) Key() string {
	return f.normalize().String()
}
