package entity

// City is a city the chain operates in. Name is the default display name,
// NameRu/NameKz are localized variants used by search.
type City struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	NameRu    string  `json:"nameRu,omitempty"`
	NameKz    string  `json:"nameKz,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	IsActive  bool    `json:"isActive"`
}

// Category is a menu category. Active categories are rendered in ascending
// SortOrder.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IconURL   string `json:"iconUrl,omitempty"`
	SortOrder int    `json:"sortOrder"`
	IsActive  bool   `json:"isActive"`
}
