package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"todo_api/internal/validation"

	"github.com/gin-gonic/gin"
)

func validationFailed(c *gin.Context, errs validation.Errors) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "errors": errs})
}

// badRequest reports a body that could not be decoded. A value of the wrong JSON
// type is reported against its field like any other validation failure.
func badRequest(c *gin.Context, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		errs := validation.Errors{}
		errs.Add(typeErr.Field, fmt.Sprintf("'%s' must be a JSON %s.", typeErr.Field, typeErr.Type.Kind()))
		validationFailed(c, errs)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
}
