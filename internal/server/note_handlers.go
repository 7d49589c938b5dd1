package server

import (
	"scholarsync/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotes godoc
// @Summary List every note
// @Tags notes
// @Produce json
// @Param limit query int false "Page size (1-100, default 50)"
// @Param cursor query string false "Cursor returned by the previous page"
// @Success 200 {object} models.NotePage
// @Router /notes [get]
func (s *Server) GetNotes(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return respond(c, err)
	}
	page, err := s.noteService.List(c.UserContext(), limit, c.Query("cursor"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(page)
}

// GetMyNotes godoc
// @Summary List the caller's notes
// @Tags notes
// @Produce json
// @Success 200 {array} models.Note
// @Security BearerAuth
// @Router /notes/me [get]
func (s *Server) GetMyNotes(c *fiber.Ctx) error {
	notes, err := s.noteService.Mine(c.UserContext(), currentUserID(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(notes)
}

// GetNote godoc
// @Summary Get a note with its sections
// @Tags notes
// @Produce json
// @Param id path string true "Note ID"
// @Success 200 {object} models.Note
// @Failure 404 {object} models.ErrorResponse
// @Router /notes/{id} [get]
func (s *Server) GetNote(c *fiber.Ctx) error {
	note, err := s.noteService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(note)
}

// CreateNote godoc
// @Summary Create a note
// @Tags notes
// @Accept json
// @Produce json
// @Param request body models.NotePayload true "Note"
// @Success 201 {object} models.Note
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /notes [post]
func (s *Server) CreateNote(c *fiber.Ctx) error {
	var req models.NotePayload
	if err := bindJSON(c, &req); err != nil {
		return respond(c, err)
	}
	note, err := s.noteService.Create(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

// UpdateNote godoc
// @Summary Replace a note's fields and optionally its sections
// @Tags notes
// @Accept json
// @Produce json
// @Param id path string true "Note ID"
// @Param request body models.UpdateNoteRequest true "Note"
// @Success 200 {object} models.Note
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id} [put]
func (s *Server) UpdateNote(c *fiber.Ctx) error {
	var req models.UpdateNoteRequest
	if err := bindJSON(c, &req); err != nil {
		return respond(c, err)
	}
	note, err := s.noteService.Update(c.UserContext(), c.Params("id"), currentUserID(c), req)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(note)
}

// ReorderSections godoc
// @Summary Reorder a note's sections
// @Tags notes
// @Accept json
// @Produce json
// @Param id path string true "Note ID"
// @Param request body models.ReorderSectionsRequest true "Section order"
// @Success 200 {object} models.Note
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id}/sections/order [put]
func (s *Server) ReorderSections(c *fiber.Ctx) error {
	var req models.ReorderSectionsRequest
	if err := bindJSON(c, &req); err != nil {
		return respond(c, err)
	}
	note, err := s.noteService.Reorder(c.UserContext(), c.Params("id"), currentUserID(c), req)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(note)
}

// DeleteNote godoc
// @Summary Delete a note
// @Tags notes
// @Param id path string true "Note ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id} [delete]
func (s *Server) DeleteNote(c *fiber.Ctx) error {
	if err := s.noteService.Delete(c.UserContext(), c.Params("id"), currentUserID(c)); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
