package models

import (
	"time"
)

type Account struct {
	Address        string    `json:"address" gorm:"primaryKey;type:text"`
	Kind           string    `json:"kind" gorm:"type:text;not null"`
	PasswordDigest string    `json:"-" gorm:"type:text"`
	SharedSecret   string    `json:"-" gorm:"type:text"`
	Locale         string    `json:"locale" gorm:"type:text"`
	CDate          time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
