package models

import "time"

// IssueStatusPending is the status every new issue starts in. Statuses are
// free-form strings beyond this default; the admin dashboard decides the
// vocabulary.
const IssueStatusPending = "Pending"

// Issue represents a citizen-submitted civic problem report. Titles are
// globally unique; the vote flow relies on that to decide insert vs increment.
type Issue struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;uniqueIndex;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"size:255" json:"location"`
	PhotoPath   string    `gorm:"size:512" json:"photo_path"`
	Votes       int       `gorm:"not null;default:0" json:"votes"`
	Status      string    `gorm:"size:64;not null;default:Pending" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
