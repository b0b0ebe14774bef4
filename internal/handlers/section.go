package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/josh-kartchner/traction/internal/dto"
	"github.com/josh-kartchner/traction/internal/service"
)

type SectionHandler struct {
	svc SectionService
}

func NewSectionHandler(svc SectionService) *SectionHandler {
	return &SectionHandler{svc: svc}
}

// Create godoc
// @Summary      Add a section to a project
// @Tags         sections
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                    true  "Project ID"
// @Param        body  body      dto.CreateSectionRequest  true  "Section"
// @Success      201   {object}  dto.SectionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /projects/{id}/sections [post]
func (h *SectionHandler) Create(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateSectionRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.svc.Create(c.Request.Context(), projectID, service.SectionInput{Name: req.Name, SortOrder: req.SortOrder})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sectionToResponse(s))
}

// Update godoc
// @Summary      Rename or re-key a section
// @Tags         sections
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                    true  "Section ID"
// @Param        body  body      dto.UpdateSectionRequest  true  "Partial update"
// @Success      200   {object}  dto.SectionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /sections/{id} [patch]
func (h *SectionHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSectionRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.svc.Update(c.Request.Context(), id, service.SectionPatch{Name: req.Name, SortOrder: req.SortOrder})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sectionToResponse(s))
}

// Delete godoc
// @Summary      Delete a section
// @Description  The last section of a project cannot be deleted. A section with tasks needs reassignTo; the 400 body then carries taskCount.
// @Tags         sections
// @Security     CookieAuth
// @Param        id          path   string  true   "Section ID"
// @Param        reassignTo  query  string  false  "Section receiving the tasks"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /sections/{id} [delete]
func (h *SectionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id, c.Query("reassignTo")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
