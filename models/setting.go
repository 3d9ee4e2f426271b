package models

// Setting is a synchronized per-home key/value preference.
type Setting struct {
	SyncMeta

	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *Setting) Meta() *SyncMeta        { return &s.SyncMeta }
func (s *Setting) EntityType() EntityType { return EntityTypeSetting }
