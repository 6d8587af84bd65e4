package models

// Activity type values. The log knows exactly two transitions.
const (
	ActivityEnter = "enter"
	ActivityExit  = "exit"
)

// Activity is an append-only record of a zone boundary crossing. ZoneName and
// Icon are snapshotted from the zone at creation time so history survives zone
// edits and soft deletion; they are never re-read from the live zone. There are
// no update or delete paths for activities.
type Activity struct {
	ID        uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint   `json:"userId" gorm:"not null;index"`
	User      User   `json:"-" gorm:"foreignKey:UserID"`
	ZoneID    uint   `json:"zoneId" gorm:"not null;index"`
	ZoneName  string `json:"zoneName" gorm:"not null"`
	Icon      string `json:"icon" gorm:"type:varchar(50)"`
	Type      string `json:"type" gorm:"not null;type:varchar(10)"`
	Timestamp int64  `json:"timestamp" gorm:"not null"` // epoch milliseconds
}
