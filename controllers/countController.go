package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/WeeklyPrayers/initializers"
	"github.com/WeeklyPrayers/models"
	"github.com/WeeklyPrayers/services"
	"github.com/doug-martin/goqu/v9"
)

func readCount(c *gin.Context, week int, year int) {
	var row models.PrayerCount
	found, err := initializers.DB.From("prayer_counts").
		Where(goqu.Ex{"week_number": week, "year": year}).
		ScanStructContext(c, &row)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer count", "details": err.Error()})
		return
	}
	if !found {
		// a week with no presses simply has no row
		row = models.PrayerCount{Week_Number: week, Year: year}
	}

	c.JSON(http.StatusOK, gin.H{"week": week, "year": year, "count": row.Count})
}

func GetCurrentCount(c *gin.Context) {
	period := services.CurrentPeriod()
	readCount(c, period.Week, period.Year)
}

func GetWeekCount(c *gin.Context) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil || week < 1 || week > 53 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid week number. Must be between 1 and 53."})
		return
	}

	year := services.ISOYear(time.Now())
	if yearParam := c.Query("year"); yearParam != "" {
		year, err = strconv.Atoi(yearParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}
	}

	readCount(c, week, year)
}

// IncrementCount bumps the current week's prayer counter. The increment is
// a single conditional upsert so concurrent presses never lose updates.
func IncrementCount(c *gin.Context) {
	period := services.CurrentPeriod()
	now := time.Now()

	insert := initializers.DB.Insert("prayer_counts").
		Rows(goqu.Record{
			"week_number": period.Week,
			"year":        period.Year,
			"count":       1,
			"updated_at":  now,
		}).
		OnConflict(goqu.DoUpdate("week_number, year", goqu.Record{
			"count":      goqu.L("prayer_counts.count + 1"),
			"updated_at": now,
		})).
		Returning("count").
		Executor()

	var count int
	if _, err := insert.ScanVal(&count); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to increment prayer count", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"week": period.Week, "year": period.Year, "count": count})
}
