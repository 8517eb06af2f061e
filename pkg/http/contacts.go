package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"liyu1981.xyz/glucova-service/pkg/models"
)

type CreateContactRequest struct {
	Email string  `json:"email"`
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

var createContactRequestSchema = z.Struct(z.Shape{
	"email": z.String().Trim().Email().Required(),
	"name":  z.Ptr(z.String()),
	"phone": z.Ptr(z.String()),
})

func (rs *RestfulServer) ListContacts(c *gin.Context) {
	contacts, err := rs.Monitor.Contact.ListContacts(currentUser(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, contacts)
}

func (rs *RestfulServer) CreateContact(c *gin.Context) {
	var req CreateContactRequest
	if errs := createContactRequestSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		abortWithIssues(c, errs)
		return
	}

	contact, err := rs.Monitor.Contact.CreateContact(currentUser(c), &models.ContactInput{
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contact)
}

type UpdateContactRequest struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

var updateContactRequestSchema = z.Struct(z.Shape{
	"email": z.Ptr(z.String().Trim().Email()),
	"name":  z.Ptr(z.String()),
	"phone": z.Ptr(z.String()),
})

func (rs *RestfulServer) UpdateContact(c *gin.Context) {
	var req UpdateContactRequest
	if errs := updateContactRequestSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		abortWithIssues(c, errs)
		return
	}

	contact, err := rs.Monitor.Contact.UpdateContact(currentUser(c), c.Param("contact_id"), &models.ContactPatch{
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (rs *RestfulServer) DeleteContact(c *gin.Context) {
	if err := rs.Monitor.Contact.DeleteContact(currentUser(c), c.Param("contact_id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
