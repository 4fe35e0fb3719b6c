package model

// Hotel represents one property in the inventory-owning store, as stored in
// the `hotels` table.  A hotel belongs to exactly one city and owns its room
// types indirectly through the rooms assigned to it.  Hotels are immutable
// during a search; only catalog administration mutates them.
//
// Fields:
//
//	ID       – primary key identifier of the hotel.
//	Name     – display name, searched with a case-insensitive substring match.
//	Address  – street address shown on offers.
//	Stars    – star category (1..5).
//	City     – city display name, denormalized from the cities table.
//	Country  – country display name, denormalized from the cities table.
type Hotel struct {
	ID      uint64
	Name    string
	Address string
	Stars   uint8
	City    string
	Country string
}

// RoomType is a category of rooms offered by one hotel (`room_types` table).
// Identity is hotel-scoped: the same category name in two hotels is two
// distinct records.  Capacity is derived from the bed composition.
type RoomType struct {
	ID         uint64
	HotelID    uint64
	Category   string
	SingleBeds uint8
	DoubleBeds uint8
}

// Capacity returns how many guests the room type sleeps.
func (t RoomType) Capacity() int {
	return int(t.DoubleBeds)*2 + int(t.SingleBeds)
}

// Room is a physical numbered unit (`rooms` table) belonging to exactly one
// hotel and one room type.  The count of rooms per (hotel, room type) is the
// type's total capacity used by the availability computation.
type Room struct {
	ID         uint64
	HotelID    uint64
	RoomTypeID uint64
	Number     string
}
