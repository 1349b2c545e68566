package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/poolhouse/confidence-pool/internal/usecase"
)

type weekJobRequest struct {
	Week int `json:"week" validate:"required,min=1,max=30"`
}

type settleJobRequest struct {
	CurrentWeek int `json:"current_week" validate:"required,min=1,max=30"`
}

type healWeekResponse struct {
	Week           int `json:"week"`
	Matched        int `json:"matched"`
	KickoffUpdated int `json:"kickoffUpdated"`
	RelocatedIn    int `json:"relocatedIn"`
	RelocatedOut   int `json:"relocatedOut"`
	InvalidEntries int `json:"invalidEntries"`
}

type repairPointsResponse struct {
	Week     int `json:"week"`
	Repaired int `json:"repaired"`
}

type settleResponse struct {
	WeeklyWeeks     int    `json:"weeklyWeeks"`
	WeeklyAwards    int    `json:"weeklyAwards"`
	OverallSettled  bool   `json:"overallSettled"`
	LastPlaceUser   string `json:"lastPlaceUser,omitempty"`
	SurvivorSettled bool   `json:"survivorSettled"`
}

func (h *Handler) RunHealWeekJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunHealWeekJob")
	defer span.End()

	var req weekJobRequest
	if err := decodeJobRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.healerService.HealWeek(ctx, req.Week)
	if err != nil {
		h.logger.WarnContext(ctx, "run heal week job failed", "week", req.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, healWeekResponse{
		Week:           result.Week,
		Matched:        result.Matched,
		KickoffUpdated: result.KickoffUpdated,
		RelocatedIn:    result.RelocatedIn,
		RelocatedOut:   result.RelocatedOut,
		InvalidEntries: len(result.InvalidEntries),
	})
}

func (h *Handler) RunRepairPointsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRepairPointsJob")
	defer span.End()

	var req weekJobRequest
	if err := decodeJobRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	repaired, err := h.settlementService.RepairAllPoints(ctx, req.Week)
	if err != nil {
		h.logger.WarnContext(ctx, "run repair points job failed", "week", req.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, repairPointsResponse{Week: req.Week, Repaired: repaired})
}

func (h *Handler) RunSettleJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSettleJob")
	defer span.End()

	var req settleJobRequest
	if err := decodeJobRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.settlementService.Run(ctx, req.CurrentWeek)
	if err != nil {
		h.logger.WarnContext(ctx, "run settle job failed", "current_week", req.CurrentWeek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, settleResponse{
		WeeklyWeeks:     summary.WeeklyWeeks,
		WeeklyAwards:    summary.WeeklyAwards,
		OverallSettled:  summary.OverallSettled,
		LastPlaceUser:   summary.LastPlaceUser,
		SurvivorSettled: summary.SurvivorSettled,
	})
}

func decodeJobRequest(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
