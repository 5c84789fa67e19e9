package api

import (
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"visionaryiq/db"
	"visionaryiq/models"
	"visionaryiq/utils"

	"github.com/gin-gonic/gin"
)

// Client-facing messages.
const (
	MsgMissingFields = "Missing required fields"
	MsgInvalidEmail  = "Invalid email format"
	MsgSubmitFailed  = "Failed to send message. Please try again or email us directly."
	MsgSubmitOK      = "Message sent successfully! We'll get back to you within 24 hours."
)

// emailPattern matches a local part, "@" and a domain containing a dot, with no whitespace anywhere.
// \s is ASCII only in RE2; vertical tab, Unicode separators and the BOM are excluded explicitly.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// Notifier receives every stored contact. Implementations must not block the request.
type Notifier interface {
	Dispatch(record models.ContactRecord)
}

// SubmitContactRequest is the body posted by the website's contact form.
type SubmitContactRequest struct {
	FirstName string `json:"firstName" example:"Ada"`
	LastName  string `json:"lastName" example:"Lovelace"`
	Email     string `json:"email" example:"ada@example.com"`
	Company   string `json:"company,omitempty" example:"Analytical Engines Ltd"`
	Subject   string `json:"subject" example:"analytics"`
	Message   string `json:"message" example:"We would like to forecast demand for our engines."`
}

// SubmitContactResponse is returned when a submission has been stored.
type SubmitContactResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// validateEmail reports whether email passes the basic format check.
func validateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// isBlank reports whether s is empty or whitespace only.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// missingRequired reports whether any required field is blank.
// Fields are stored as submitted; whitespace only decides presence.
func (r SubmitContactRequest) missingRequired() bool {
	return isBlank(r.FirstName) || isBlank(r.LastName) || isBlank(r.Email) || isBlank(r.Subject) || isBlank(r.Message)
}

// newContactRecord builds the record stored for a validated request.
func newContactRecord(req SubmitContactRequest, httpReq *http.Request, now time.Time) models.ContactRecord {
	company := req.Company
	if isBlank(company) {
		company = models.CompanyNotProvided
	}
	now = now.UTC().Truncate(time.Millisecond)
	return models.ContactRecord{
		ID:        utils.GenerateContactID(now),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Company:   company,
		Subject:   req.Subject,
		Message:   req.Message,
		Timestamp: now,
		Status:    models.StatusNew,
		IPAddress: utils.ClientIP(httpReq),
		UserAgent: utils.UserAgent(httpReq),
	}
}

// SubmitContactHandler stores a contact form submission.
// @Summary      Submit the Contact Form
// @Description  Accepts a contact form submission from the website, stores it and notifies the site owner.
// @Description
// @Description  `firstName`, `lastName`, `email`, `subject` and `message` are required. `company` is optional.
// @Description  `subject` is a project type key such as `ai-platform`, `analytics`, `automation`, `dashboard`, `consulting` or `other`.
// @Description  Submitting the same data twice stores two separate records.
// @Tags         Contact
// @Accept       json
// @Produce      json
// @Param        contact body SubmitContactRequest true "The contact form fields."
// @Success      200  {object}  SubmitContactResponse "Submission stored. The response carries the reference id."
// @Failure      400  {object}  utils.APIError "Bad Request: a required field is missing, or the email address is malformed."
// @Failure      500  {object}  utils.APIError "Internal Server Error: the submission could not be stored."
// @Router       /api/contact [post]
func SubmitContactHandler(c *gin.Context, database *db.Database, notifier Notifier) {
	var req SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("WARN: Unreadable contact submission body: %v", err)
		ContactSubmissionsTotal.WithLabelValues("invalid").Inc()
		utils.GinBadRequest(c, MsgMissingFields)
		return
	}

	if req.missingRequired() {
		ContactSubmissionsTotal.WithLabelValues("invalid").Inc()
		utils.GinBadRequest(c, MsgMissingFields)
		return
	}
	if !validateEmail(req.Email) {
		ContactSubmissionsTotal.WithLabelValues("invalid").Inc()
		utils.GinBadRequest(c, MsgInvalidEmail)
		return
	}

	record := newContactRecord(req, c.Request, time.Now())

	if err := database.AppendContact(record); err != nil {
		log.Printf("ERROR: Error saving contact to database: %v", err)
		ContactSubmissionsTotal.WithLabelValues("error").Inc()
		utils.GinInternalServerError(c, MsgSubmitFailed)
		return
	}

	// The record is durable at this point; stats and notification problems are only logged.
	if err := database.UpdateStats(record); err != nil {
		log.Printf("WARN: Error updating contact stats for %s: %v", record.ID, err)
	}
	if notifier != nil {
		notifier.Dispatch(record)
	}

	log.Printf("INFO: New contact submission: id=%s name=%q email=%s subject=%s timestamp=%s",
		record.ID, record.FullName(), record.Email, record.Subject, record.Timestamp.Format(time.RFC3339))

	ContactSubmissionsTotal.WithLabelValues("accepted").Inc()
	c.JSON(http.StatusOK, SubmitContactResponse{
		Message: MsgSubmitOK,
		ID:      record.ID,
	})
}
