package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/dto"
	"github.com/josh-kartchner/traction/internal/ordering"
)

// ViewHandler serves the cross-project views and the reorder batch endpoint.
type ViewHandler struct {
	views   ViewService
	reorder ReorderService
}

func NewViewHandler(views ViewService, reorder ReorderService) *ViewHandler {
	return &ViewHandler{views: views, reorder: reorder}
}

// Reorder godoc
// @Summary      Persist sort keys
// @Description  Writes every {id, sortOrder} pair of one entity type, or none of them.
// @Tags         reorder
// @Accept       json
// @Security     CookieAuth
// @Param        body  body  dto.ReorderRequest  true  "Batch"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /reorder [patch]
func (h *ViewHandler) Reorder(c *gin.Context) {
	var req dto.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: ordering.ErrInvalidBatch.Error()})
		return
	}
	if err := h.reorder.Apply(c.Request.Context(), ordering.Kind(req.Type), req.Items); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MyTasks godoc
// @Summary      Open tasks by due date
// @Description  Every incomplete task in overdue, dueToday, dueTomorrow, upcoming or noDueDate, with a relative label.
// @Tags         views
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.MyTasksResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /my-tasks [get]
func (h *ViewHandler) MyTasks(c *gin.Context) {
	res, err := h.views.MyTasks(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	b := res.Buckets
	c.JSON(http.StatusOK, dto.MyTasksResponse{
		Today:       res.Today.String(),
		Overdue:     labeled(b.Overdue, res.Today),
		DueToday:    labeled(b.DueToday, res.Today),
		DueTomorrow: labeled(b.DueTomorrow, res.Today),
		Upcoming:    labeled(b.Upcoming, res.Today),
		NoDueDate:   labeled(b.NoDate, res.Today),
	})
}

// Report godoc
// @Summary      Tasks by status
// @Description  Tasks of active projects grouped by status, ordered by project name then sort order.
// @Tags         views
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ReportResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /report [get]
func (h *ViewHandler) Report(c *gin.Context) {
	r, err := h.views.Report(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReportResponse{
		NotStarted: viewsToResponses(r[dom.StatusNotStarted]),
		InProgress: viewsToResponses(r[dom.StatusInProgress]),
		OnHold:     viewsToResponses(r[dom.StatusOnHold]),
		Completed:  viewsToResponses(r[dom.StatusCompleted]),
	})
}

// Today godoc
// @Summary      Current date
// @Description  Today in the server's zone, and whether it differs from since.
// @Tags         views
// @Produce      json
// @Param        since  query     string  false  "Last seen date (YYYY-MM-DD)"
// @Success      200    {object}  dto.TodayResponse
// @Router       /today [get]
func (h *ViewHandler) Today(c *gin.Context) {
	info := h.views.Today(c.Query("since"))
	c.JSON(http.StatusOK, dto.TodayResponse{Today: info.Today.String(), HasDateChanged: info.Changed})
}
