package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
	"liyu1981.xyz/glucova-service/pkg/monitor"
)

type RestfulServer struct {
	Server      *gin.Engine
	Monitor     *monitor.Monitor
	CORSOrigins []string
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/health", rs.HealthCheck)

	api := rs.Server.Group("/api/v1")

	users := api.Group("/users")
	{
		users.POST("/sign-up", rs.SignUp)
		users.POST("/sign-in", rs.SignIn)
		users.GET("/get-information", rs.RequireUser, rs.GetInformation)
		users.PUT("/update-information", rs.RequireUser, rs.UpdateInformation)
		users.DELETE("/delete-account", rs.RequireUser, rs.DeleteAccount)
	}

	devices := api.Group("/devices", rs.RequireUser)
	{
		devices.POST("", rs.CreateDevice)
		devices.GET("", rs.ListDevices)
		devices.GET("/:device_id", rs.GetDevice)
		devices.PUT("/:device_id", rs.UpdateDevice)
		devices.DELETE("/:device_id", rs.DeleteDevice)
		devices.PUT("/:device_id/limiter", rs.PutLimiter)
	}

	records := api.Group("/records", rs.RequireUser)
	{
		records.POST("", rs.CreateRecord)
		records.GET("", rs.ListRecords)
		records.GET("/device/:device_id", rs.ListDeviceRecords)
		records.GET("/:record_id", rs.GetRecord)
		records.DELETE("/:record_id", rs.DeleteRecord)
	}

	// devices report alerts without a user credential
	api.POST("/alerts", rs.CreateAlert)
	alerts := api.Group("/alerts", rs.RequireUser)
	{
		alerts.GET("", rs.ListAlerts)
		alerts.GET("/:alert_id", rs.GetAlert)
		alerts.DELETE("/:alert_id", rs.DeleteAlert)
	}

	contacts := api.Group("/contacts", rs.RequireUser)
	{
		contacts.POST("", rs.CreateContact)
		contacts.GET("", rs.ListContacts)
		contacts.PUT("/:contact_id", rs.UpdateContact)
		contacts.DELETE("/:contact_id", rs.DeleteContact)
	}
}

// Handler wraps the engine with CORS for the configured origins.
func (rs *RestfulServer) Handler() http.Handler {
	origins := rs.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.AllowCredentials(),
	)(rs.Server)
}
