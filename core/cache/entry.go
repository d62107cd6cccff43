package cache

import "time"

// Entry is the last raw payload fetched for an external id.
type Entry struct {
	ID         uint      `gorm:"primaryKey"`
	OriginalID string    `gorm:"column:id_original;size:50;not null;uniqueIndex:idx_response_kind_original,priority:2"`
	Kind       string    `gorm:"column:tipo;size:50;not null;uniqueIndex:idx_response_kind_original,priority:1"`
	Payload    string    `gorm:"column:payload;type:text;not null"`
	FetchedAt  time.Time `gorm:"column:fetched_at;not null"`
}

// TableName overrides the table name used by gorm.
func (Entry) TableName() string {
	return "response_log"
}
