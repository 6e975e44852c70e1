package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/WeeklyPrayers/models"
)

// Submission kinds. A request's kind is fixed at creation.
const (
	KindPublic = "public"
	KindStaff  = "staff"
	KindPastor = "pastor"
)

var ErrPermissionDenied = errors.New("permission denied")

// MaxContentLength is the per-kind character limit enforced at submission.
func MaxContentLength(kind string) int {
	switch kind {
	case KindStaff:
		return 2000
	case KindPastor:
		return 3000
	default:
		return 1000
	}
}

func ValidateContent(kind string, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content is required")
	}
	if limit := MaxContentLength(kind); utf8.RuneCountInString(content) > limit {
		return fmt.Errorf("content exceeds the %d character limit", limit)
	}
	return nil
}

// CanSubmit reports whether the actor's role may create a request of the
// given kind. Public submissions are open to everyone, anonymous included.
func CanSubmit(role models.Role, kind string) bool {
	switch kind {
	case KindStaff:
		return role.AtLeast(models.RoleWorker)
	case KindPastor:
		return role.AtLeast(models.RoleAdmin)
	default:
		return true
	}
}

// CanManage reports whether the actor may edit or delete a request of the
// given kind. Staff need worker rank; pastor rows are admin-only.
func CanManage(role models.Role, kind string) bool {
	if kind == KindPastor {
		return role.AtLeast(models.RoleAdmin)
	}
	return role.AtLeast(models.RoleWorker)
}

// CanApprove reports whether the actor may toggle approval. Approval state
// only exists for public requests; staff and pastor rows are always visible.
func CanApprove(role models.Role, kind string) bool {
	return kind == KindPublic && role.AtLeast(models.RoleWorker)
}

// NewPrayerRequest assembles the row for one submission. Public text runs
// through moderation synchronously and is always stored pending, whatever
// the verdict; staff and pastor submissions publish verbatim with no
// moderation pass.
func NewPrayerRequest(ctx context.Context, kind string, content string, userID *int, start time.Time, end time.Time) models.PrayerRequest {
	request := models.PrayerRequest{
		User_ID:          userID,
		Type:             kind,
		Original_Content: content,
		Start_Date:       start,
		End_Date:         end,
	}

	if kind != KindPublic {
		request.Sanitized_Content = &content
		request.Is_Approved = true
		return request
	}

	verdict := Sanitize(ctx, content)
	request.Sanitized_Content = verdict.SanitizedContent
	request.AI_Flagged = verdict.Flagged
	request.AI_Flag_Reason = verdict.FlagReason
	request.Is_Approved = false

	return request
}

// ToPrayerView maps a stored row to its API shape. The displayed content
// is the sanitized text when present, the original otherwise. Moderation
// metadata only travels to staff readers.
func ToPrayerView(r models.PrayerRecord, includeOriginal bool) models.PrayerView {
	content := r.Original_Content
	if r.Sanitized_Content != nil {
		content = *r.Sanitized_Content
	}

	view := models.PrayerView{
		ID:         r.ID,
		Type:       r.Type,
		Content:    content,
		StartDate:  r.Start_Date,
		EndDate:    r.End_Date,
		IsApproved: r.Is_Approved,
		CreatedAt:  r.Created_At,
		UpdatedAt:  r.Updated_At,
		AuthorName: r.Author_Name,
	}

	if includeOriginal {
		original := r.Original_Content
		flagged := r.AI_Flagged
		view.OriginalContent = &original
		view.AIFlagged = &flagged
		view.AIFlagReason = r.AI_Flag_Reason
	}

	return view
}

// GroupPrayers buckets week rows by kind, keeping the query's ordering
// within each bucket.
func GroupPrayers(rows []models.PrayerRecord, includeOriginal bool) models.GroupedPrayers {
	grouped := models.GroupedPrayers{
		Pastor: []models.PrayerView{},
		Staff:  []models.PrayerView{},
		Public: []models.PrayerView{},
	}

	for _, r := range rows {
		view := ToPrayerView(r, includeOriginal)
		switch r.Type {
		case KindPastor:
			grouped.Pastor = append(grouped.Pastor, view)
		case KindStaff:
			grouped.Staff = append(grouped.Staff, view)
		case KindPublic:
			grouped.Public = append(grouped.Public, view)
		}
	}

	return grouped
}
