package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mileusna/useragent"
)

// Working-hours window for handheld clients.
const (
	accessStartHour = 9
	accessEndHour   = 17
)

// accessClock is swapped out in tests.
var accessClock = time.Now

// CheckAccessHandler handles GET /check-access: mobile and tablet agents are
// only admitted during working hours.
func CheckAccessHandler(c *gin.Context) {
	ua := useragent.Parse(c.Request.UserAgent())
	isHandheld := ua.Mobile || ua.Tablet

	hour := accessClock().Hour()
	if isHandheld && (hour < accessStartHour || hour >= accessEndHour) {
		c.JSON(http.StatusOK, gin.H{"accessAllowed": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessAllowed": true})
}
