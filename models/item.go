package models

// Item is a single inventory item tracked by the household: a thing with a
// quantity, stored somewhere, optionally categorised.
type Item struct {
	SyncMeta

	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Quantity    int      `json:"quantity"`
	CategoryID  string   `json:"category_id,omitempty"`
	LocationID  string   `json:"location_id,omitempty"`
	PhotoURL    string   `json:"photo_url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func (i *Item) Meta() *SyncMeta        { return &i.SyncMeta }
func (i *Item) EntityType() EntityType { return EntityTypeItem }
