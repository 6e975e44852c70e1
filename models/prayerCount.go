package models

import "time"

// PrayerCount tracks how many times the "I prayed" counter was pressed in
// a given ISO week. One row per (week_number, year).
type PrayerCount struct {
	Week_Number int       `json:"week"`
	Year        int       `json:"year"`
	Count       int       `json:"count"`
	Updated_At  time.Time `json:"updatedAt" goqu:"skipinsert"`
}
