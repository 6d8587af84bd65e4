package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification options a zone can be configured with.
const (
	NotifyEnter = "enter"
	NotifyExit  = "exit"
	NotifyBoth  = "both"
)

type Zone struct {
	ID                 uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID             uint           `json:"userId" gorm:"not null;index"`
	User               User           `json:"-" gorm:"foreignKey:UserID"`
	Title              string         `json:"title" gorm:"not null"`
	Address            string         `json:"address"`
	Location           string         `json:"location"`
	Latitude           float64        `json:"latitude" gorm:"not null;type:decimal(10,8)"`
	Longitude          float64        `json:"longitude" gorm:"not null;type:decimal(11,8)"`
	Radius             float64        `json:"radius" gorm:"not null"` // meters
	Icon               string         `json:"icon" gorm:"type:varchar(50)"`
	Color              string         `json:"color" gorm:"type:varchar(20)"`
	Description        string         `json:"description" gorm:"type:text"`
	ImageURL           string         `json:"imageUrl"`
	NotificationOption string         `json:"notificationOption" gorm:"not null;type:varchar(10);default:both"`
	NotificationText   string         `json:"notificationText" gorm:"type:text"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`
}
