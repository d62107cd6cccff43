package cursor

import (
	"time"

	"bling-sync/core/utils"
)

// NoIndex marks a page on which no row has been processed yet.
const NoIndex int16 = -1

// ImportCursor is the durable resume point of one entity kind.
type ImportCursor struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	EntityKind         string     `gorm:"column:tabela;size:50;not null;uniqueIndex" json:"entityKind"`
	Page               int        `gorm:"column:pagina;not null" json:"page"`
	LastProcessedIndex int16      `gorm:"column:ultimo_index_processado;not null" json:"lastProcessedIndex"`
	WindowDate         *time.Time `gorm:"column:data;type:date" json:"windowDate,omitempty"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// TableName overrides the table name used by gorm.
func (ImportCursor) TableName() string {
	return "controle_importacao"
}

// New returns a cursor at the first page with nothing processed.
func New(kind string, start *time.Time) *ImportCursor {
	c := &ImportCursor{EntityKind: kind, Page: 1, LastProcessedIndex: NoIndex}
	if start != nil {
		d := utils.DateOnly(*start)
		c.WindowDate = &d
	}
	return c
}

// Advance records that the next row of the page was processed.
func (c *ImportCursor) Advance() {
	c.LastProcessedIndex++
}

// NextPage moves to the following page.
func (c *ImportCursor) NextPage() {
	c.Page++
	c.LastProcessedIndex = NoIndex
}

// Rollover moves the window one calendar day forward and restarts paging.
func (c *ImportCursor) Rollover() {
	if c.WindowDate != nil {
		next := utils.DateOnly(*c.WindowDate).AddDate(0, 0, 1)
		c.WindowDate = &next
	}
	c.Page = 1
	c.LastProcessedIndex = NoIndex
}

// StartIndex is the first row index of the current page still to be processed.
func (c *ImportCursor) StartIndex() int {
	return int(c.LastProcessedIndex) + 1
}

// CaughtUp reports whether the window has reached the calendar day of now,
// read in now's own location. Cursors without a window are always caught up.
func (c *ImportCursor) CaughtUp(now time.Time) bool {
	if c.WindowDate == nil {
		return true
	}
	w := utils.DateOnly(*c.WindowDate)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, w.Location())
	return !w.Before(today)
}
