package handlers

import (
	"net/http"
	"time"

	"collections-console/internal/models"
	"collections-console/internal/risk"
	"collections-console/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecordsHandler appends raw note and SMS records to the store
type RecordsHandler struct {
	writer RecordWriter
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(writer RecordWriter) *RecordsHandler {
	return &RecordsHandler{writer: writer}
}

// AddNote handles POST /api/notes
func (h *RecordsHandler) AddNote(c *gin.Context) {
	var req models.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !risk.IsValidIdentifier(req.CustNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid customer number is required"})
		return
	}

	note := models.Note{
		CustNumber:    req.CustNumber,
		AccNumber:     req.AccNumber,
		Owner:         req.Owner,
		Body:          req.Body,
		Reason:        req.Reason,
		ReasonDetails: req.ReasonDetails,
		Important:     req.Important,
		NoteDate:      req.NoteDate,
	}
	if note.Owner == "" {
		note.Owner = c.GetString("agentID")
	}
	if note.NoteDate == "" {
		note.NoteDate = time.Now().UTC().Format("2006-01-02")
	}

	if err := h.writer.AddNote(c.Request.Context(), &note); err != nil {
		logger.Error("Failed to save note", zap.String("custnumber", note.CustNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save note"})
		return
	}

	logger.Info("Note saved", zap.String("custnumber", note.CustNumber), zap.Int64("id", note.ID))
	c.JSON(http.StatusCreated, note)
}

// AddSMS handles POST /api/sms
func (h *RecordsHandler) AddSMS(c *gin.Context) {
	var req models.CreateSMSLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !risk.IsValidIdentifier(req.CustomerNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid customer number is required"})
		return
	}

	log := models.SMSLog{
		CustomerNumber: req.CustomerNumber,
		PhoneNumber:    req.PhoneNumber,
		Message:        req.Message,
		SendStatus:     req.SendStatus,
		DateSent:       req.DateSent,
	}
	if log.DateSent == "" {
		log.DateSent = time.Now().UTC().Format("2006-01-02")
	}

	if err := h.writer.AddSMSLog(c.Request.Context(), &log); err != nil {
		logger.Error("Failed to save SMS log", zap.String("customer_number", log.CustomerNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save SMS log"})
		return
	}

	c.JSON(http.StatusCreated, log)
}
