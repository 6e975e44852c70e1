package controllers

import (
	"html/template"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/WeeklyPrayers/models"
	"github.com/WeeklyPrayers/services"
)

// EmbedCORS opens the embed endpoints to any origin so the widget can be
// dropped into the congregation's main website.
func EmbedCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusOK)
		return
	}

	c.Next()
}

type embedItem struct {
	Content string `json:"content"`
}

func embedContent(views []models.PrayerView) []embedItem {
	items := []embedItem{}
	for _, v := range views {
		items = append(items, embedItem{Content: v.Content})
	}
	return items
}

// GetEmbedData returns the current week's published prayers in the shape
// the widget script consumes.
func GetEmbedData(c *gin.Context) {
	period := services.CurrentPeriod()

	rows, err := queryWeekPrayers(c, period.Week, period.Year, false)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer requests"})
		return
	}

	grouped := services.GroupPrayers(rows, false)

	c.JSON(http.StatusOK, gin.H{
		"week":      period.Week,
		"year":      period.Year,
		"startDate": services.FormatDate(period.Start),
		"endDate":   services.FormatDate(period.End),
		"prayers": gin.H{
			"pastor": embedContent(grouped.Pastor),
			"staff":  embedContent(grouped.Staff),
			"public": embedContent(grouped.Public),
		},
	})
}

const embedWidgetJS = `
(function() {
  var container = document.getElementById('weekly-prayers-widget');
  if (!container) {
    console.error('Weekly Prayers: Container element #weekly-prayers-widget not found');
    return;
  }

  var apiUrl = '%BASE_URL%/api/embed/data';

  fetch(apiUrl)
    .then(function(response) { return response.json(); })
    .then(function(data) {
      var html = '<div class="wp-widget">';
      html += '<h3 class="wp-title">Rukousaiheet - Viikko ' + data.week + '/' + data.year + '</h3>';

      if (data.prayers.pastor.length > 0) {
        html += '<div class="wp-section wp-pastor">';
        html += '<h4>Kirkkoherran aihe</h4>';
        data.prayers.pastor.forEach(function(p) {
          html += '<p>' + escapeHtml(p.content) + '</p>';
        });
        html += '</div>';
      }

      if (data.prayers.staff.length > 0) {
        html += '<div class="wp-section wp-staff">';
        html += '<h4>Työntekijöiden aiheet</h4>';
        data.prayers.staff.forEach(function(p) {
          html += '<p>' + escapeHtml(p.content) + '</p>';
        });
        html += '</div>';
      }

      if (data.prayers.public.length > 0) {
        html += '<div class="wp-section wp-public">';
        html += '<h4>Seurakunnan aiheet</h4>';
        data.prayers.public.forEach(function(p) {
          html += '<p>' + escapeHtml(p.content) + '</p>';
        });
        html += '</div>';
      }

      html += '</div>';
      container.innerHTML = html;

      if (!document.getElementById('wp-widget-styles')) {
        var style = document.createElement('style');
        style.id = 'wp-widget-styles';
        style.textContent = '.wp-widget { font-family: system-ui, sans-serif; max-width: 600px; } .wp-title { color: #1e3a5f; border-bottom: 2px solid #c9a227; padding-bottom: 8px; } .wp-section { margin: 16px 0; } .wp-section h4 { color: #1e3a5f; margin-bottom: 8px; } .wp-section p { margin: 8px 0; line-height: 1.5; } .wp-pastor { background: #f8f4e8; padding: 16px; border-left: 4px solid #c9a227; }';
        document.head.appendChild(style);
      }
    })
    .catch(function(error) {
      container.innerHTML = '<p style="color: #999;">Rukousaiheiden lataus epäonnistui.</p>';
      console.error('Weekly Prayers Widget Error:', error);
    });

  function escapeHtml(text) {
    var div = document.createElement('div');
    div.textContent = text;
    return div.innerHTML;
  }
})();
`

// GetEmbedWidget serves the self-installing widget script.
func GetEmbedWidget(c *gin.Context) {
	script := strings.ReplaceAll(embedWidgetJS, "%BASE_URL%", os.Getenv("BASE_URL"))

	c.Header("Content-Type", "application/javascript")
	c.String(http.StatusOK, script)
}

var embedIframeTmpl = template.Must(template.New("iframe").Parse(`<!DOCTYPE html>
<html lang="fi">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Rukousaiheet</title>
  <style>
    * { box-sizing: border-box; margin: 0; padding: 0; }
    body { font-family: system-ui, -apple-system, sans-serif; padding: 16px; line-height: 1.6; color: #333; }
    h2 { color: #1e3a5f; border-bottom: 2px solid #c9a227; padding-bottom: 8px; margin-bottom: 16px; }
    h3 { color: #1e3a5f; font-size: 1rem; margin: 16px 0 8px; }
    .pastor { background: #f8f4e8; padding: 16px; border-left: 4px solid #c9a227; margin: 16px 0; }
    .prayer { margin: 8px 0; padding: 8px 0; border-bottom: 1px dotted #eee; }
    .prayer:last-child { border-bottom: none; }
    .empty { color: #999; font-style: italic; }
  </style>
</head>
<body>
  <h2>Viikko {{.Week}}/{{.Year}}</h2>

  {{if .Prayers.Pastor}}
    <div class="pastor">
      <h3>Kirkkoherran aihe</h3>
      {{range .Prayers.Pastor}}<p>{{.Content}}</p>{{end}}
    </div>
  {{end}}

  {{if .Prayers.Staff}}
    <h3>Työntekijöiden aiheet</h3>
    {{range .Prayers.Staff}}<div class="prayer">{{.Content}}</div>{{end}}
  {{end}}

  {{if .Prayers.Public}}
    <h3>Seurakunnan aiheet</h3>
    {{range .Prayers.Public}}<div class="prayer">{{.Content}}</div>{{end}}
  {{end}}

  {{if .Empty}}
    <p class="empty">Ei rukousaiheita tälle viikolle.</p>
  {{end}}
</body>
</html>`))

// GetEmbedIframe renders the iframe flavor of the widget.
func GetEmbedIframe(c *gin.Context) {
	period := services.CurrentPeriod()

	rows, err := queryWeekPrayers(c, period.Week, period.Year, false)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer requests"})
		return
	}

	grouped := services.GroupPrayers(rows, false)

	data := intercessionData{
		Week:    period.Week,
		Year:    period.Year,
		Prayers: grouped,
		Empty:   len(grouped.Pastor)+len(grouped.Staff)+len(grouped.Public) == 0,
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := embedIframeTmpl.Execute(c.Writer, data); err != nil {
		log.Println("Failed to render embed iframe:", err)
	}
}
