package handlers

import (
	"net/http"

	"price_wheel/internal/game"

	"github.com/gin-gonic/gin"
)

// WheelInfo describes the wheel every table is built with.
func (h *Handler) WheelInfo(c *gin.Context) {
	tuning := h.Hub.Tuning()

	c.JSON(http.StatusOK, gin.H{
		"segments":          tuning.Faces,
		"target_score":      tuning.TargetScore,
		"min_push_pixels_y": tuning.MinPushPixelsY,
		"spin_multiplier":   tuning.SpinMultiplier,
		"stop_step":         tuning.StopStep,
		"dampening":         tuning.Dampening,
		"players":           game.Players,
	})
}
