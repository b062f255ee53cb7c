package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type fieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// badRequest reports a binding failure. Validator errors enumerate every
// failing field; anything else becomes a single malformed-body issue.
func badRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		issues := make([]fieldIssue, 0, len(verrs))
		for _, fe := range verrs {
			issues = append(issues, fieldIssue{
				Field:   fieldPath(fe.Namespace()),
				Message: issueMessage(fe),
			})
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "issues": issues})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

// fieldPath strips the root struct name and lowercases the first segment
// letter so issues reference JSON field names.
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}
