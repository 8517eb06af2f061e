package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"liyu1981.xyz/glucova-service/pkg/models"
)

type CreateRecordRequest struct {
	Level       int        `json:"level"`
	Description *string    `json:"description"`
	Timestamp   *time.Time `json:"timestamp"`
	DeviceID    *string    `json:"device_id" zog:"device_id"`
}

var createRecordRequestSchema = z.Struct(z.Shape{
	"level":       z.Int().Required(),
	"description": z.Ptr(z.String()),
	"timestamp":   z.Ptr(z.Time()),
	"deviceID":    z.Ptr(z.String()),
})

func (rs *RestfulServer) CreateRecord(c *gin.Context) {
	var req CreateRecordRequest
	if errs := createRecordRequestSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		abortWithIssues(c, errs)
		return
	}

	record, err := rs.Monitor.Record.CreateRecord(currentUser(c), &models.RecordInput{
		Level:       req.Level,
		Description: req.Description,
		Timestamp:   req.Timestamp,
		DeviceID:    req.DeviceID,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

type PageQuery struct {
	Limit *int `json:"limit"`
	Skip  *int `json:"skip"`
}

var pageQuerySchema = z.Struct(z.Shape{
	"limit": z.Ptr(z.Int()),
	"skip":  z.Ptr(z.Int()),
})

func (q PageQuery) page() models.Page {
	return models.Page{Limit: q.Limit, Skip: q.Skip}
}

func (rs *RestfulServer) ListRecords(c *gin.Context) {
	var query PageQuery
	if errs := pageQuerySchema.Parse(zhttp.Request(c.Request), &query); errs != nil {
		abortWithIssues(c, errs)
		return
	}

	records, err := rs.Monitor.Record.ListRecords(currentUser(c), query.page())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (rs *RestfulServer) ListDeviceRecords(c *gin.Context) {
	var query PageQuery
	if errs := pageQuerySchema.Parse(zhttp.Request(c.Request), &query); errs != nil {
		abortWithIssues(c, errs)
		return
	}

	records, err := rs.Monitor.Record.ListDeviceRecords(currentUser(c), c.Param("device_id"), query.page())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (rs *RestfulServer) GetRecord(c *gin.Context) {
	record, err := rs.Monitor.Record.GetRecord(currentUser(c), c.Param("record_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (rs *RestfulServer) DeleteRecord(c *gin.Context) {
	if err := rs.Monitor.Record.DeleteRecord(currentUser(c), c.Param("record_id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
