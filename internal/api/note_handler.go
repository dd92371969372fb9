package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	noteService service.NoteService
}

func NewNoteHandler(noteService service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// --- Request/Response Structs ---

type NoteRequest struct {
	Title   string          `json:"title" binding:"required"`
	Content string          `json:"content" binding:"required"`
	Type    domain.NoteType `json:"type"`
}

// --- Handler Methods ---

// AddNote godoc
// @Summary Add a journal note
// @Tags Notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param note body NoteRequest true "Note"
// @Success 201 {object} domain.Note
// @Failure 400 {object} gin.H "Invalid input"
// @Router /notes [post]
func (h *NoteHandler) AddNote(c *gin.Context) {
	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	note, err := h.noteService.Add(c.Request.Context(), getSession(c), req.Title, req.Content, req.Type)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// ListNotes godoc
// @Summary List notes, newest first
// @Tags Notes
// @Produce json
// @Security BearerAuth
// @Param type query string false "Only notes of this type"
// @Success 200 {array} domain.Note
// @Router /notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	notes, err := h.noteService.List(c.Request.Context(), getSession(c), domain.NoteType(c.Query("type")))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

// UpdateNote godoc
// @Summary Edit a note
// @Tags Notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Param note body NoteRequest true "New contents"
// @Success 200 {object} domain.Note
// @Failure 404 {object} gin.H "Note not found"
// @Router /notes/{id} [put]
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	note, err := h.noteService.Update(c.Request.Context(), getSession(c), c.Param("id"), req.Title, req.Content, req.Type)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// DeleteNote godoc
// @Summary Delete a note
// @Tags Notes
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Success 204 "No Content"
// @Router /notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	if err := h.noteService.Delete(c.Request.Context(), getSession(c), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TogglePin godoc
// @Summary Pin or unpin a note
// @Tags Notes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Success 200 {object} domain.Note
// @Router /notes/{id}/pin [post]
func (h *NoteHandler) TogglePin(c *gin.Context) {
	note, err := h.noteService.TogglePin(c.Request.Context(), getSession(c), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}
