package controllers

import (
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/WeeklyPrayers/models"
	"github.com/WeeklyPrayers/services"
)

// intercessionTmpl is the printable intercession sheet handed to the
// service leader. Layout and wording follow the congregation's printout.
var intercessionTmpl = template.Must(template.New("intercession").Parse(`<!DOCTYPE html>
<html lang="fi">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Esirukous - Viikko {{.Week}}/{{.Year}}</title>
  <style>
    @page { margin: 2cm; }
    @media print {
      body { font-size: 12pt; }
      .no-print { display: none; }
    }
    body {
      font-family: Georgia, 'Times New Roman', serif;
      max-width: 800px;
      margin: 0 auto;
      padding: 20px;
      line-height: 1.6;
      color: #333;
    }
    h1 {
      text-align: center;
      color: #1e3a5f;
      border-bottom: 2px solid #c9a227;
      padding-bottom: 10px;
    }
    h2 {
      color: #1e3a5f;
      margin-top: 30px;
      font-size: 1.2em;
    }
    .date-range {
      text-align: center;
      color: #666;
      margin-bottom: 30px;
    }
    .pastor-section {
      background: #f8f4e8;
      padding: 20px;
      border-left: 4px solid #c9a227;
      margin: 20px 0;
    }
    .prayer-item {
      margin: 15px 0;
      padding: 10px 0;
      border-bottom: 1px dotted #ddd;
    }
    .prayer-item:last-child {
      border-bottom: none;
    }
    .print-button {
      position: fixed;
      top: 20px;
      right: 20px;
      padding: 10px 20px;
      background: #1e3a5f;
      color: white;
      border: none;
      border-radius: 5px;
      cursor: pointer;
    }
    .empty {
      color: #999;
      font-style: italic;
    }
  </style>
</head>
<body>
  <button class="print-button no-print" onclick="window.print()">Tulosta</button>

  <h1>Esirukous</h1>
  <p class="date-range">Viikko {{.Week}}/{{.Year}} ({{.StartDate}} - {{.EndDate}})</p>

  {{if .Prayers.Pastor}}
    <div class="pastor-section">
      <h2>Kirkkoherran aihe</h2>
      {{range .Prayers.Pastor}}<p>{{.Content}}</p>{{end}}
    </div>
  {{end}}

  {{if .Prayers.Staff}}
    <h2>Työntekijöiden rukousaiheet</h2>
    {{range .Prayers.Staff}}
      <div class="prayer-item"><p>{{.Content}}</p></div>
    {{end}}
  {{end}}

  {{if .Prayers.Public}}
    <h2>Seurakunnan rukousaiheet</h2>
    {{range .Prayers.Public}}
      <div class="prayer-item"><p>{{.Content}}</p></div>
    {{end}}
  {{end}}

  {{if .Empty}}
    <p class="empty">Ei rukousaiheita tälle viikolle.</p>
  {{end}}
</body>
</html>`))

type intercessionData struct {
	Week      int
	Year      int
	StartDate string
	EndDate   string
	Prayers   models.GroupedPrayers
	Empty     bool
}

// ExportIntercession renders the printable intercession page for a week.
// Only published content goes out, never moderation metadata.
func ExportIntercession(c *gin.Context) {
	period := services.CurrentPeriod()
	week, year := period.Week, period.Year

	var err error
	if weekParam := c.Query("week"); weekParam != "" {
		week, err = strconv.Atoi(weekParam)
		if err != nil || week < 1 || week > 53 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid week number. Must be between 1 and 53."})
			return
		}
	}
	if yearParam := c.Query("year"); yearParam != "" {
		year, err = strconv.Atoi(yearParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}
	}

	rows, err := queryWeekPrayers(c, week, year, false)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer requests"})
		return
	}

	grouped := services.GroupPrayers(rows, false)
	start, end := services.WeekBounds(week, year)

	data := intercessionData{
		Week:      week,
		Year:      year,
		StartDate: start.Format("2.1."),
		EndDate:   end.Format("2.1."),
		Prayers:   grouped,
		Empty:     len(grouped.Pastor)+len(grouped.Staff)+len(grouped.Public) == 0,
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := intercessionTmpl.Execute(c.Writer, data); err != nil {
		log.Println("Failed to render intercession export:", err)
	}
}
