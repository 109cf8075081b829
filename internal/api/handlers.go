package api

import (
	"errors"
	"fmt"
	"net/http"

	"wedding-rsvp/internal/export"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/storage"

	"github.com/gin-gonic/gin"
)

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// storeError maps store errors onto status codes
func (s *Server) storeError(c *gin.Context, err error, msg string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		fail(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, storage.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	default:
		s.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(msg)
		fail(c, http.StatusInternalServerError, msg)
	}
}

// POST /rsvp, POST /api/admin/guests
func (s *Server) createGuest(c *gin.Context) {
	var guest models.Guest
	if err := c.ShouldBindJSON(&guest); err != nil {
		fail(c, http.StatusBadRequest, fmt.Sprintf("Ungültige Anfrage: %v", err))
		return
	}

	created, err := s.store.CreateGuest(c.Request.Context(), guest)
	if err != nil {
		s.storeError(c, err, "Fehler beim Speichern der Rückmeldung")
		return
	}
	s.log.Info().Str("id", created.ID).Str("guest", created.Name).Msg("Guest created")
	s.notifyAsync(c.Request.Context(), created)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      created.ID,
		"guest":   created,
	})
}

// GET /api/admin/guests
func (s *Server) listGuests(c *gin.Context) {
	guests, err := s.store.ListGuests(c.Request.Context())
	if err != nil {
		s.storeError(c, err, "Fehler beim Laden der Gäste")
		return
	}
	c.JSON(http.StatusOK, guests)
}

// PUT /api/admin/guests/:id
func (s *Server) updateGuest(c *gin.Context) {
	var guest models.Guest
	if err := c.ShouldBindJSON(&guest); err != nil {
		fail(c, http.StatusBadRequest, fmt.Sprintf("Ungültige Anfrage: %v", err))
		return
	}
	guest.ID = c.Param("id")

	updated, err := s.store.UpdateGuest(c.Request.Context(), guest)
	if err != nil {
		s.storeError(c, err, "Fehler beim Speichern")
		return
	}
	s.log.Info().Str("id", updated.ID).Msg("Guest updated")
	c.JSON(http.StatusOK, gin.H{"success": true, "guest": updated})
}

// DELETE /api/admin/guests/:id
func (s *Server) deleteGuest(c *gin.Context) {
	id := c.Param("id")
	if err := s.store.DeleteGuest(c.Request.Context(), id); err != nil {
		s.storeError(c, err, "Fehler beim Löschen")
		return
	}
	s.log.Info().Str("id", id).Msg("Guest deleted")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/admin/guests/export
func (s *Server) exportGuests(c *gin.Context) {
	guests, err := s.store.ListGuests(c.Request.Context())
	if err != nil {
		s.storeError(c, err, "Fehler beim Laden der Gäste")
		return
	}
	data, err := export.Bytes(guests)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to render export")
		fail(c, http.StatusInternalServerError, "Fehler beim Export")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	c.Data(http.StatusOK, export.ContentType, data)
}
