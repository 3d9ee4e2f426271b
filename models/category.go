package models

// Category groups inventory items (e.g. "Tools", "Pantry").
type Category struct {
	SyncMeta

	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

func (c *Category) Meta() *SyncMeta        { return &c.SyncMeta }
func (c *Category) EntityType() EntityType { return EntityTypeCategory }
