package response

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// TimestampFormat is the format used for timestamps in error bodies.
const TimestampFormat = "2006-01-02 03:04:05"

// ErrorBody is the JSON shape of a single-error response.
type ErrorBody struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
}

// FieldErrorBody is the JSON shape of a request-validation error response.
type FieldErrorBody struct {
	Timestamp   string            `json:"timestamp"`
	Status      int               `json:"status"`
	Error       string            `json:"error"`
	Message     string            `json:"message"`
	FieldErrors map[string]string `json:"fieldErrors"`
}

// Error sends an error response with the standard body.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{
		Timestamp: time.Now().UTC().Format(TimestampFormat),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
	})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError sends a 500 error response.
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// ValidationError sends a 400 response with per-field errors when err is a
// validator error, falling back to a plain bad request body otherwise.
func ValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		BadRequest(c, err.Error())
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field()[:1])+fe.Field()[1:]] = validationMessage(fe)
	}

	c.JSON(http.StatusBadRequest, FieldErrorBody{
		Timestamp:   time.Now().UTC().Format(TimestampFormat),
		Status:      http.StatusBadRequest,
		Error:       http.StatusText(http.StatusBadRequest),
		Message:     "request validation failed",
		FieldErrors: fields,
	})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be blank"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "uuid":
		return "must be a valid UUID"
	default:
		return "is invalid"
	}
}
