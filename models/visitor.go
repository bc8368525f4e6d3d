package models

// VisitorCounter is a single-row table (id = 1) holding the site visit count.
type VisitorCounter struct {
	ID    int `gorm:"primaryKey;column:id" json:"id"`
	Count int `gorm:"column:count;default:0" json:"count"`
}

// TableName overrides
func (VisitorCounter) TableName() string {
	return "visitor_counter"
}
