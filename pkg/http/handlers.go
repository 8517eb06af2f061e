package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"liyu1981.xyz/glucova-service/pkg/common"
	"liyu1981.xyz/glucova-service/pkg/models"
)

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "environment": common.Environment()})
}

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var signUpRequestSchema = z.Struct(z.Shape{
	"email":    z.String().Trim().Email().Required(),
	"password": z.String().Min(1).Required(),
})

func (rs *RestfulServer) SignUp(c *gin.Context) {
	var req SignUpRequest
	if errs := signUpRequestSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		abortWithIssues(c, errs)
		return
	}

	user, err := rs.Monitor.Identity.SignUp(req.Email, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var signInRequestSchema = z.Struct(z.Shape{
	"email":    z.String().Required(),
	"password": z.String().Required(),
})

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (rs *RestfulServer) SignIn(c *gin.Context) {
	var req SignInRequest
	if errs := signInRequestSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		abortWithIssues(c, errs)
		return
	}

	token, err := rs.Monitor.Identity.SignIn(req.Email, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: common.BearerTokenType})
}

func (rs *RestfulServer) GetInformation(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

type UpdateUserRequest struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Age   *int    `json:"age"`
}

var updateUserRequestSchema = z.Struct(z.Shape{
	"email": z.Ptr(z.String().Trim().Email()),
	"name":  z.Ptr(z.String()),
	"phone": z.Ptr(z.String()),
	"age":   z.Ptr(z.Int().GTE(0)),
})

func (rs *RestfulServer) UpdateInformation(c *gin.Context) {
	var req UpdateUserRequest
	if errs := updateUserRequestSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		abortWithIssues(c, errs)
		return
	}

	user, err := rs.Monitor.Identity.UpdateSelf(currentUser(c), &models.UserPatch{
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
		Age:   req.Age,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (rs *RestfulServer) DeleteAccount(c *gin.Context) {
	if err := rs.Monitor.Identity.DeleteSelf(currentUser(c)); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
