package models

import "time"

type PrayerRequest struct {
	ID                int       `json:"id" goqu:"skipinsert"`
	User_ID           *int      `json:"userId"`
	Type              string    `json:"type"`
	Original_Content  string    `json:"originalContent"`
	Sanitized_Content *string   `json:"sanitizedContent"`
	AI_Flagged        bool      `json:"aiFlagged"`
	AI_Flag_Reason    *string   `json:"aiFlagReason"`
	Start_Date        time.Time `json:"startDate"`
	End_Date          time.Time `json:"endDate"`
	Is_Approved       bool      `json:"isApproved"`
	Created_At        time.Time `json:"createdAt" goqu:"skipinsert"`
	Updated_At        time.Time `json:"updatedAt" goqu:"skipinsert"`
}

// PrayerRecord is a PrayerRequest row joined with the submitter's name,
// as returned by the week-window query.
type PrayerRecord struct {
	ID                int       `json:"id"`
	User_ID           *int      `json:"userId"`
	Type              string    `json:"type"`
	Original_Content  string    `json:"originalContent"`
	Sanitized_Content *string   `json:"sanitizedContent"`
	AI_Flagged        bool      `json:"aiFlagged"`
	AI_Flag_Reason    *string   `json:"aiFlagReason"`
	Start_Date        time.Time `json:"startDate"`
	End_Date          time.Time `json:"endDate"`
	Is_Approved       bool      `json:"isApproved"`
	Created_At        time.Time `json:"createdAt"`
	Updated_At        time.Time `json:"updatedAt"`
	Author_Name       *string   `json:"authorName"`
}

// PrayerView is the API shape of one prayer. Moderation metadata and the
// original text are only filled in for staff readers.
type PrayerView struct {
	ID              int       `json:"id"`
	Type            string    `json:"type"`
	Content         string    `json:"content"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	IsApproved      bool      `json:"isApproved"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	AuthorName      *string   `json:"authorName"`
	OriginalContent *string   `json:"originalContent,omitempty"`
	AIFlagged       *bool     `json:"aiFlagged,omitempty"`
	AIFlagReason    *string   `json:"aiFlagReason,omitempty"`
}

// GroupedPrayers buckets one week's prayers by submission type.
type GroupedPrayers struct {
	Pastor []PrayerView `json:"pastor"`
	Staff  []PrayerView `json:"staff"`
	Public []PrayerView `json:"public"`
}

type PrayerSubmission struct {
	Content   string `json:"content"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type PrayerUpdate struct {
	OriginalContent  *string `json:"originalContent"`
	SanitizedContent *string `json:"sanitizedContent"`
	StartDate        *string `json:"startDate"`
	EndDate          *string `json:"endDate"`
}

type ApprovalRequest struct {
	Approved bool `json:"approved"`
}
