package utils

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"visionaryiq/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// contactIDSuffixLen is the number of random characters appended to contact ids.
const contactIDSuffixLen = 9

// GenerateDashlessUUID creates a new UUID v4 and returns its string representation
// with all dashes removed.
func GenerateDashlessUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")
}

// GenerateContactID returns an id of the form contact_<unix millis>_<random suffix>.
// Uniqueness is best-effort: two ids created in the same millisecond differ only by
// their random suffix.
func GenerateContactID(now time.Time) string {
	return fmt.Sprintf("contact_%d_%s", now.UnixMilli(), GenerateDashlessUUID()[:contactIDSuffixLen])
}

// ClientIP returns the submitter's address as reported by proxy headers:
// the first X-Forwarded-For entry, then X-Real-IP, else "unknown".
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return models.UnknownClientValue
}

// UserAgent returns the request's User-Agent header, or "unknown".
func UserAgent(r *http.Request) string {
	if ua := strings.TrimSpace(r.UserAgent()); ua != "" {
		return ua
	}
	return models.UnknownClientValue
}

// APIError is a standard structure for returning errors as JSON.
type APIError struct {
	Error string `json:"error"`
}

// GinError sends a JSON error response with a specific status code.
// It logs the error server-side as well.
func GinError(c *gin.Context, statusCode int, message string) {
	log.Printf("ERROR: Request %s %s - Status %d - %s", c.Request.Method, c.Request.URL.Path, statusCode, message)
	c.AbortWithStatusJSON(statusCode, APIError{Error: message})
}

// GinBadRequest sends a 400 Bad Request error response.
func GinBadRequest(c *gin.Context, message string) {
	GinError(c, http.StatusBadRequest, message)
}

// GinNotFound sends a 404 Not Found error response.
func GinNotFound(c *gin.Context, message string) {
	GinError(c, http.StatusNotFound, message)
}

// GinInternalServerError sends a 500 Internal Server Error response.
func GinInternalServerError(c *gin.Context, message string) {
	GinError(c, http.StatusInternalServerError, message)
}
