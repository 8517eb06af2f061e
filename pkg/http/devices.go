package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"liyu1981.xyz/glucova-service/pkg/apperrors"
	"liyu1981.xyz/glucova-service/pkg/models"
)

type CreateDeviceRequest struct {
	Timestamp *time.Time `json:"timestamp"`
}

var createDeviceRequestSchema = z.Struct(z.Shape{
	"timestamp": z.Ptr(z.Time()),
})

func (rs *RestfulServer) CreateDevice(c *gin.Context) {
	var req CreateDeviceRequest
	// the body is optional
	if hasBody(c.Request) {
		if errs := createDeviceRequestSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
			abortWithIssues(c, errs)
			return
		}
	}

	device, err := rs.Monitor.Device.CreateDevice(currentUser(c), req.Timestamp)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, device)
}

type ListDevicesQuery struct {
	Status string `json:"status"`
}

var listDevicesQuerySchema = z.Struct(z.Shape{
	"status": z.String(),
})

func (rs *RestfulServer) ListDevices(c *gin.Context) {
	var query ListDevicesQuery
	if errs := listDevicesQuerySchema.Parse(zhttp.Request(c.Request), &query); errs != nil {
		abortWithIssues(c, errs)
		return
	}

	devices, err := rs.Monitor.Device.ListDevices(currentUser(c), query.Status)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, devices)
}

func (rs *RestfulServer) GetDevice(c *gin.Context) {
	device, err := rs.Monitor.Device.GetDevice(currentUser(c), c.Param("device_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, device)
}

type UpdateDeviceRequest struct {
	Status    *string    `json:"status"`
	Timestamp *time.Time `json:"timestamp"`
}

var updateDeviceRequestSchema = z.Struct(z.Shape{
	"status":    z.Ptr(z.String()),
	"timestamp": z.Ptr(z.Time()),
})

func (rs *RestfulServer) UpdateDevice(c *gin.Context) {
	var req UpdateDeviceRequest
	if hasBody(c.Request) {
		if errs := updateDeviceRequestSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
			abortWithIssues(c, errs)
			return
		}
	}

	device, err := rs.Monitor.Device.UpdateDevice(currentUser(c), c.Param("device_id"), &models.DevicePatch{
		Status:    req.Status,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, device)
}

func (rs *RestfulServer) DeleteDevice(c *gin.Context) {
	if err := rs.Monitor.Device.DeleteDevice(currentUser(c), c.Param("device_id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type LimiterRequest struct {
	Rate  *float64 `json:"rate"`
	Burst *int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Ptr(z.Float64().GTE(0)),
	"burst": z.Ptr(z.Int().GTE(0)),
})

func (rs *RestfulServer) PutLimiter(c *gin.Context) {
	var req LimiterRequest
	if errs := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		abortWithIssues(c, errs)
		return
	}
	// zero is a legal rate and burst, so Required can not tell it from absent
	if req.Rate == nil || req.Burst == nil {
		abortWithError(c, apperrors.New(apperrors.CodeInvalidArgument, "rate and burst are required"))
		return
	}

	if err := rs.Monitor.Device.SetIngestLimit(currentUser(c), c.Param("device_id"), *req.Rate, *req.Burst); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// hasBody is true for any request carrying a body, including chunked ones
// whose length is unknown (-1).
func hasBody(r *http.Request) bool {
	return r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0
}
