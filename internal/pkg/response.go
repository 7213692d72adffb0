package pkg

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/playerbase/internal/domain"
)

// Response is the JSON envelope used for responses outside the record API,
// such as unmatched routes.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// JSON sends a 200 response with data as the bare body.
func JSON(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Error aborts the request with the HTTP status mapped from err and no body.
// Server-side failures are logged at error level, client errors at debug.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)
	ctx := c.Request.Context()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", "status", status, "error", err)
	} else {
		slog.DebugContext(ctx, "request rejected", "status", status, "error", err)
	}
	c.AbortWithStatus(status)
}

// NotFound sends the 404 envelope.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, Response{
		Code:    http.StatusNotFound,
		Message: "not found",
		Data:    nil,
	})
}

// BindAndValidate binds the request body to obj and validates it.
// On failure it logs the offending fields, aborts with 400 and returns false.
// Usage in handlers:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		slog.DebugContext(c.Request.Context(), "invalid request body",
			"error", err, "fields", FieldErrors(err, obj))
		c.AbortWithStatus(http.StatusBadRequest)
		return false
	}
	return true
}

// FieldErrors maps each failed field to its violated rule, e.g. "name": "max=12".
// Field names come from the JSON tags of obj when available. It returns nil
// when err is not a validator.ValidationErrors.
func FieldErrors(err error, obj any) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}

	jsonTags := buildJSONTagMap(obj)

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		name := fe.Field()
		if tag, ok := jsonTags[fe.StructField()]; ok {
			name = tag
		} else {
			name = strings.ToLower(name)
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[name] = rule
	}
	return fields
}

// buildJSONTagMap returns a map from struct field name to its JSON tag name.
// If obj is nil or not a struct (pointer), it returns nil.
func buildJSONTagMap(obj any) map[string]string {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	m := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if name := parseJSONTagName(f.Tag.Get("json")); name != "" {
			m[f.Name] = name
		}
	}
	return m
}

// parseJSONTagName extracts the field name from a JSON struct tag value.
func parseJSONTagName(tag string) string {
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return ""
	}
	return name
}
