package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/prop-sheet/internal/services"
	"github.com/jstittsworth/prop-sheet/pkg/utils"
)

// RunHandler exposes the batch pipeline to the scheduler's HTTP surface:
// trigger an on-demand run, inspect the latest report.
type RunHandler struct {
	fetcher *services.FetcherService
}

func NewRunHandler(fetcher *services.FetcherService) *RunHandler {
	return &RunHandler{
		fetcher: fetcher,
	}
}

type runRequest struct {
	Week     int  `json:"week" binding:"required"`
	Season   int  `json:"season"`
	DryRun   bool `json:"dry_run"`
	PostGame bool `json:"post_game"`
}

// TriggerRun starts a pipeline run for the requested week. A run already in
// flight rejects the request rather than queueing behind the run lock.
func (h *RunHandler) TriggerRun(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "week is required")
		return
	}

	report, err := h.fetcher.RunOnDemand(services.RunOptions{
		Week:     req.Week,
		Season:   req.Season,
		DryRun:   req.DryRun,
		PostGame: req.PostGame,
	})
	if err != nil {
		utils.SendConflict(c, err.Error())
		return
	}

	utils.SendSuccess(c, report)
}

// GetLatestRun returns the most recent run report.
func (h *RunHandler) GetLatestRun(c *gin.Context) {
	report := h.fetcher.LastReport()
	if report == nil {
		utils.SendNotFound(c, "no runs yet")
		return
	}
	utils.SendSuccess(c, report)
}

// GetStatus returns scheduler state and upcoming cron fires.
func (h *RunHandler) GetStatus(c *gin.Context) {
	utils.SendSuccess(c, h.fetcher.GetStatus())
}
