package models

type Table struct {
	Name      string         `json:"name,omitempty"`
	MaxCovers int            `json:"maxCovers,omitempty"`
	IsActive  bool           `json:"isActive,omitempty"`
	Criteria  *TableCriteria `json:"criteria,omitempty"`
	Uri       string         `json:"uri,omitempty"`
}

type TableCriteria struct {
	IsCommunal bool `json:"isCommunal,omitempty"`
	CanMerge   bool `json:"canMerge,omitempty"`
	IsSmoking  bool `json:"isSmoking,omitempty"`
	IsOutdoor  bool `json:"isOutdoor,omitempty"`
}
