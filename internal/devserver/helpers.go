package devserver

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// errResp is the error envelope the client parses: `{"message": ...}`.
func errResp(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// bindAndValidate binds the JSON body and runs validator tags. Returns
// false after writing the error response; the caller must return.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		errResp(c, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	if err := validate.Struct(req); err != nil {
		errResp(c, http.StatusUnprocessableEntity, "validation failed: "+err.Error())
		return false
	}
	return true
}

// listResp wraps list payloads in the `{"data": [...]}` envelope.
func listResp[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
