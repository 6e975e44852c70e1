package controllers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/WeeklyPrayers/initializers"
	"github.com/WeeklyPrayers/models"
	"github.com/WeeklyPrayers/services"
	"github.com/doug-martin/goqu/v9"
)

// queryWeekPrayers fetches every prayer request whose date range overlaps
// the given ISO week, joined with the submitter's name. Unapproved public
// requests are filtered out unless the reader has staff privileges.
func queryWeekPrayers(c *gin.Context, week int, year int, includeUnapproved bool) ([]models.PrayerRecord, error) {
	start, end := services.WeekBounds(week, year)

	ds := initializers.DB.From(goqu.T("prayer_requests").As("pr")).
		Select(
			goqu.I("pr.id"),
			goqu.I("pr.user_id"),
			goqu.I("pr.type"),
			goqu.I("pr.original_content"),
			goqu.I("pr.sanitized_content"),
			goqu.I("pr.ai_flagged"),
			goqu.I("pr.ai_flag_reason"),
			goqu.I("pr.start_date"),
			goqu.I("pr.end_date"),
			goqu.I("pr.is_approved"),
			goqu.I("pr.created_at"),
			goqu.I("pr.updated_at"),
			goqu.I("u.name").As("author_name"),
		).
		LeftJoin(goqu.T("users").As("u"), goqu.On(goqu.Ex{"pr.user_id": goqu.I("u.id")})).
		Where(
			goqu.I("pr.start_date").Lte(services.FormatDate(end)),
			goqu.I("pr.end_date").Gte(services.FormatDate(start)),
		)

	if !includeUnapproved {
		ds = ds.Where(goqu.Or(
			goqu.I("pr.is_approved").IsTrue(),
			goqu.I("pr.type").Neq(services.KindPublic),
		))
	}

	ds = ds.Order(goqu.I("pr.type").Asc(), goqu.I("pr.created_at").Desc())

	var rows []models.PrayerRecord
	if err := ds.ScanStructsContext(c, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func GetPrayers(c *gin.Context) {
	role := c.MustGet("currentRole").(models.Role)
	isStaff := role.AtLeast(models.RoleWorker)

	period := services.CurrentPeriod()

	rows, err := queryWeekPrayers(c, period.Week, period.Year, isStaff)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"week":    period.Week,
		"year":    period.Year,
		"prayers": services.GroupPrayers(rows, isStaff),
	})
}

func GetPrayersByWeek(c *gin.Context) {
	role := c.MustGet("currentRole").(models.Role)
	isStaff := role.AtLeast(models.RoleWorker)

	week, err := strconv.Atoi(c.Param("week"))
	if err != nil || week < 1 || week > 53 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid week number. Must be between 1 and 53."})
		return
	}

	year := services.ISOYear(time.Now())
	if yearParam := c.Query("year"); yearParam != "" {
		year, err = strconv.Atoi(yearParam)
		if err != nil || year < 2020 || year > 2100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year. Must be between 2020 and 2100."})
			return
		}
	}

	rows, err := queryWeekPrayers(c, week, year, isStaff)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"week":    week,
		"year":    year,
		"prayers": services.GroupPrayers(rows, isStaff),
	})
}

// resolvePeriod turns optional YYYY-MM-DD boundaries into the request's
// date range, defaulting to the current ISO week.
func resolvePeriod(startDate string, endDate string) (time.Time, time.Time, error) {
	period := services.CurrentPeriod()
	start, end := period.Start, period.End

	var err error
	if startDate != "" {
		start, err = time.ParseInLocation("2006-01-02", startDate, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if endDate != "" {
		end, err = time.ParseInLocation("2006-01-02", endDate, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	return start, end, nil
}

// SubmitPublicPrayer handles the open intake form. The text runs through
// moderation before it is stored; whatever the verdict, the request starts
// unapproved and waits for a human.
func SubmitPublicPrayer(c *gin.Context) {
	createPrayer(c, services.KindPublic)
}

// SubmitStaffPrayer stores a staff request: no moderation, published
// immediately.
func SubmitStaffPrayer(c *gin.Context) {
	createPrayer(c, services.KindStaff)
}

// SubmitPastorPrayer stores the pastor's request of the week. Admin only.
func SubmitPastorPrayer(c *gin.Context) {
	createPrayer(c, services.KindPastor)
}

func createPrayer(c *gin.Context, kind string) {
	role := c.MustGet("currentRole").(models.Role)

	if !services.CanSubmit(role, kind) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions for this submission type"})
		return
	}

	var body models.PrayerSubmission
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.ValidateContent(kind, body.Content); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, end, err := resolvePeriod(body.StartDate, body.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date. Use the YYYY-MM-DD format.", "details": err.Error()})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must not be before startDate"})
		return
	}

	var userID *int
	if v, ok := c.Get("currentUser"); ok {
		user := v.(models.User)
		userID = &user.ID
	}

	request := services.NewPrayerRequest(c.Request.Context(), kind, body.Content, userID, start, end)

	insert := initializers.DB.Insert("prayer_requests").Rows(request).Returning("id").Executor()
	if _, err := insert.ScanVal(&request.ID); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store prayer request"})
		return
	}

	if request.AI_Flagged {
		go func(id int, reason *string) {
			flagReason := "flagged by moderation"
			if reason != nil {
				flagReason = *reason
			}
			if svc := services.GetEmailService(); svc != nil {
				if err := svc.NotifyFlaggedSubmission(id, flagReason); err != nil {
					log.Println("Review notification failed:", err)
				}
			}
		}(request.ID, request.AI_Flag_Reason)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Prayer request submitted successfully.",
		"prayer":  request,
	})
}

func fetchPrayer(c *gin.Context, id int) (models.PrayerRequest, bool) {
	var prayer models.PrayerRequest
	_, err := initializers.DB.From("prayer_requests").Select("*").Where(goqu.C("id").Eq(id)).ScanStruct(&prayer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer request", "details": err.Error()})
		return prayer, false
	}
	if prayer.ID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prayer request not found"})
		return prayer, false
	}
	return prayer, true
}

// UpdatePrayer edits text or the date range. Editing never re-runs
// moderation and never touches the approval state.
func UpdatePrayer(c *gin.Context) {
	role := c.MustGet("currentRole").(models.Role)

	prayerID, err := strconv.Atoi(c.Param("prayer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer ID", "details": err.Error()})
		return
	}

	var body models.PrayerUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prayer, ok := fetchPrayer(c, prayerID)
	if !ok {
		return
	}

	if !services.CanManage(role, prayer.Type) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to edit this prayer request"})
		return
	}

	record := goqu.Record{"updated_at": time.Now()}
	if body.OriginalContent != nil {
		if err := services.ValidateContent(prayer.Type, *body.OriginalContent); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		record["original_content"] = *body.OriginalContent
	}
	if body.SanitizedContent != nil {
		record["sanitized_content"] = *body.SanitizedContent
	}
	if body.StartDate != nil {
		start, err := time.ParseInLocation("2006-01-02", *body.StartDate, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate. Use the YYYY-MM-DD format."})
			return
		}
		record["start_date"] = start
	}
	if body.EndDate != nil {
		end, err := time.ParseInLocation("2006-01-02", *body.EndDate, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate. Use the YYYY-MM-DD format."})
			return
		}
		record["end_date"] = end
	}

	update := initializers.DB.Update("prayer_requests").Set(record).Where(goqu.C("id").Eq(prayerID)).Executor()
	if _, err := update.Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update prayer request", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Prayer request updated successfully."})
}

func DeletePrayer(c *gin.Context) {
	role := c.MustGet("currentRole").(models.Role)

	prayerID, err := strconv.Atoi(c.Param("prayer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer ID", "details": err.Error()})
		return
	}

	prayer, ok := fetchPrayer(c, prayerID)
	if !ok {
		return
	}

	if !services.CanManage(role, prayer.Type) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this prayer request"})
		return
	}

	del := initializers.DB.Delete("prayer_requests").Where(goqu.C("id").Eq(prayerID)).Executor()
	if _, err := del.Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete prayer request", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Prayer request deleted successfully."})
}

// ApprovePrayer publishes or rejects a pending public request. Approval
// state only exists for public submissions.
func ApprovePrayer(c *gin.Context) {
	role := c.MustGet("currentRole").(models.Role)

	prayerID, err := strconv.Atoi(c.Param("prayer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer ID", "details": err.Error()})
		return
	}

	var body models.ApprovalRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prayer, ok := fetchPrayer(c, prayerID)
	if !ok {
		return
	}

	if prayer.Type != services.KindPublic {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only public prayer requests have an approval state"})
		return
	}

	if !services.CanApprove(role, prayer.Type) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to approve prayer requests"})
		return
	}

	update := initializers.DB.Update("prayer_requests").
		Set(goqu.Record{"is_approved": body.Approved, "updated_at": time.Now()}).
		Where(goqu.C("id").Eq(prayerID)).
		Executor()
	if _, err := update.Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update approval", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Approval updated successfully.", "prayerId": prayerID, "approved": body.Approved})
}
