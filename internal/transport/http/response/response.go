package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/internal/apperr"
)

// Envelope is the uniform response body. Success mirrors statusCode < 400 so
// clients never have to interpret the code themselves.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
	Errors     []string    `json:"errors,omitempty"`
}

func OK(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < 400,
	})
}

// Err is the single boundary that turns workflow errors into the error
// envelope. Untyped errors become a generic 500; their details are logged
// here and never leak to the client.
func Err(c *gin.Context, err error) {
	apiErr := apperr.From(err)
	if apiErr.Status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	errs := apiErr.Errors
	if errs == nil {
		errs = []string{}
	}
	c.JSON(apiErr.Status, Envelope{
		StatusCode: apiErr.Status,
		Data:       nil,
		Message:    apiErr.Message,
		Success:    false,
		Errors:     errs,
	})
}
