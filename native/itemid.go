package native

import "github.com/skylightui/skylight/hostrt"

// ItemID is the opaque identity a hierarchical protocol hands the host for
// a position in the two-level section/item hierarchy.
//
// Identities are value-encoded words, never pointers into backing storage:
// two identities for the same (section, item) tuple compare equal across
// separate traversal calls, which the host requires for its own expand and
// selection bookkeeping, and growing or reallocating the section arrays can
// never invalidate one. The encoded epoch scopes an identity to one reload
// cycle; any structural mutation bumps the epoch and every outstanding
// identity decodes as stale.
//
// Layout (64 bits):
//
//	[63..56] marker 0x1D
//	[55..54] kind: 1 = section, 2 = item
//	[53..38] epoch
//	[37..19] section index
//	[18..0]  item index
type ItemID uint64

const (
	idMarker     uint64 = 0x1D << 56
	idMarkerMask uint64 = 0xFF << 56

	idKindShift  = 54
	idKindMask   = 0x3
	idEpochShift = 38
	idEpochMask  = 0xFFFF
	idSectShift  = 19
	idIndexMask  = (1 << 19) - 1
)

const (
	kindSection uint64 = 1
	kindItem    uint64 = 2
)

// MaxSections and MaxItems bound the encodable index space.
const (
	MaxSections = 1 << 19
	MaxItems    = 1 << 19
)

// SectionID encodes the identity of a top-level section.
func SectionID(epoch uint16, section int) ItemID {
	return ItemID(idMarker |
		kindSection<<idKindShift |
		uint64(epoch)<<idEpochShift |
		(uint64(section)&idIndexMask)<<idSectShift)
}

// ItemLeafID encodes the identity of an item inside a section.
func ItemLeafID(epoch uint16, section, item int) ItemID {
	return ItemID(idMarker |
		kindItem<<idKindShift |
		uint64(epoch)<<idEpochShift |
		(uint64(section)&idIndexMask)<<idSectShift |
		uint64(item)&idIndexMask)
}

// IsItemID reports whether a raw word carries the identity marker.
func IsItemID(w uint64) bool {
	return w&idMarkerMask == idMarker
}

// IsSection reports whether the identity names a section.
func (id ItemID) IsSection() bool {
	return uint64(id)>>idKindShift&idKindMask == kindSection
}

// IsItem reports whether the identity names an item leaf.
func (id ItemID) IsItem() bool {
	return uint64(id)>>idKindShift&idKindMask == kindItem
}

// Epoch returns the reload cycle the identity was minted in.
func (id ItemID) Epoch() uint16 {
	return uint16(uint64(id) >> idEpochShift & idEpochMask)
}

// Section returns the encoded section index.
func (id ItemID) Section() int {
	return int(uint64(id) >> idSectShift & idIndexMask)
}

// Item returns the encoded item index. Only meaningful when IsItem.
func (id ItemID) Item() int {
	return int(uint64(id) & idIndexMask)
}

// Value wraps the identity for dispatch.
func (id ItemID) Value() hostrt.Value {
	return hostrt.Ident(uint64(id))
}

// identFrom decodes a dispatch argument into an identity. The nil value is
// the host's root sentinel and decodes to (0, false).
func identFrom(v hostrt.Value) (ItemID, bool) {
	if v.IsNil() {
		return 0, false
	}
	w := v.Ident()
	if !IsItemID(w) {
		return 0, false
	}
	return ItemID(w), true
}
