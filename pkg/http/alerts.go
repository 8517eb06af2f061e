package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"liyu1981.xyz/glucova-service/pkg/models"
)

type CreateAlertRequest struct {
	DeviceID string  `json:"device_id" zog:"device_id"`
	Level    *string `json:"level"`
	Message  *string `json:"message"`
}

var createAlertRequestSchema = z.Struct(z.Shape{
	"deviceID": z.String().Trim().Required(),
	"level":    z.Ptr(z.String()),
	"message":  z.Ptr(z.String()),
})

// CreateAlert is the device-facing entry point and takes no user credential.
func (rs *RestfulServer) CreateAlert(c *gin.Context) {
	var req CreateAlertRequest
	if errs := createAlertRequestSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		abortWithIssues(c, errs)
		return
	}

	alert, err := rs.Monitor.Alert.CreateAlert(&models.AlertInput{
		DeviceID: req.DeviceID,
		Level:    req.Level,
		Message:  req.Message,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, alert)
}

type ListAlertsQuery struct {
	DeviceID string `json:"device_id" zog:"device_id"`
	Level    string `json:"level"`
	Limit    *int   `json:"limit"`
	Skip     *int   `json:"skip"`
}

var listAlertsQuerySchema = z.Struct(z.Shape{
	"deviceID": z.String(),
	"level":    z.String(),
	"limit":    z.Ptr(z.Int()),
	"skip":     z.Ptr(z.Int()),
})

func (rs *RestfulServer) ListAlerts(c *gin.Context) {
	var query ListAlertsQuery
	if errs := listAlertsQuerySchema.Parse(zhttp.Request(c.Request), &query); errs != nil {
		abortWithIssues(c, errs)
		return
	}

	alerts, err := rs.Monitor.Alert.ListAlerts(currentUser(c), &models.AlertFilter{
		DeviceID: query.DeviceID,
		Level:    query.Level,
		Page:     models.Page{Limit: query.Limit, Skip: query.Skip},
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (rs *RestfulServer) GetAlert(c *gin.Context) {
	alert, err := rs.Monitor.Alert.GetAlert(currentUser(c), c.Param("alert_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, alert)
}

func (rs *RestfulServer) DeleteAlert(c *gin.Context) {
	if err := rs.Monitor.Alert.DeleteAlert(currentUser(c), c.Param("alert_id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
