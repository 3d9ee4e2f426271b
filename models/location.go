package models

// Location is a physical place inside a home where items are stored.
// Locations form a tree via ParentID ("Garage" → "Shelf B").
type Location struct {
	SyncMeta

	Name        string `json:"name"`
	ParentID    string `json:"parent_id,omitempty"`
	Description string `json:"description,omitempty"`
}

func (l *Location) Meta() *SyncMeta        { return &l.SyncMeta }
func (l *Location) EntityType() EntityType { return EntityTypeLocation }
