package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mgpai22/capstudio/internal/apperrors"
	"github.com/mgpai22/capstudio/internal/caption"
	"github.com/mgpai22/capstudio/internal/logging"
	"github.com/mgpai22/capstudio/internal/session"
	"github.com/mgpai22/capstudio/internal/subtitle"
)

type Handler struct {
	Store  *session.Store
	Logger *logging.Logger
}

func NewHandler(store *session.Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handler{Store: store, Logger: logger}
}

type videoReq struct {
	VideoURL string  `json:"videoUrl"`
	Duration float64 `json:"duration"`
}

type durationReq struct {
	Duration float64 `json:"duration"`
}

type nudgeReq struct {
	Edge caption.Edge `json:"edge" binding:"required"`
	Step float64      `json:"step"`
}

type activeResp struct {
	Position float64          `json:"position"`
	Clock    string           `json:"clock"`
	Caption  *caption.Caption `json:"caption"`
}

func (h *Handler) CreateSession(c *gin.Context) {
	var req videoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Warnw("CreateSession bind failed", "error", err)
		errorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}

	s, err := h.Store.Create(req.VideoURL, req.Duration)
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, s)
}

func (h *Handler) GetSession(c *gin.Context) {
	s, err := h.Store.Get(c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, s)
}

func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.Store.Delete(c.Param("id")); err != nil {
		errorResponse(c, err)
		return
	}
	success(c, nil)
}

func (h *Handler) LoadVideo(c *gin.Context) {
	var req videoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}

	s, err := h.Store.LoadVideo(c.Param("id"), req.VideoURL, req.Duration)
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, s)
}

func (h *Handler) SetDuration(c *gin.Context) {
	var req durationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}

	s, err := h.Store.SetDuration(c.Param("id"), req.Duration)
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, s)
}

func (h *Handler) AddCaption(c *gin.Context) {
	var req caption.Candidate
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}

	s, err := h.Store.AddCaption(c.Param("id"), req)
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, s)
}

func (h *Handler) UpdateCaption(c *gin.Context) {
	var req caption.Candidate
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}

	s, err := h.Store.UpdateCaption(c.Param("id"), c.Param("captionId"), req)
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, s)
}

// NudgeCaption shifts the start or end of a caption by a small step.
func (h *Handler) NudgeCaption(c *gin.Context) {
	var req nudgeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}

	s, err := h.Store.NudgeCaption(c.Param("id"), c.Param("captionId"), req.Edge, req.Step)
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, s)
}

func (h *Handler) DeleteCaption(c *gin.Context) {
	s, err := h.Store.DeleteCaption(c.Param("id"), c.Param("captionId"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, s)
}

func (h *Handler) ClearCaptions(c *gin.Context) {
	s, err := h.Store.ClearCaptions(c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, s)
}

func (h *Handler) LoadSample(c *gin.Context) {
	s, err := h.Store.LoadSample(c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, s)
}

// Active reports the caption shown at ?t=<seconds>.
func (h *Handler) Active(c *gin.Context) {
	pos, err := strconv.ParseFloat(c.Query("t"), 64)
	if err == nil && (math.IsNaN(pos) || math.IsInf(pos, 0)) {
		err = fmt.Errorf("t is not finite: %s", c.Query("t"))
	}
	if err != nil {
		errorResponse(c, apperrors.WrapWithDetail(apperrors.CodeInvalidParams, "Invalid parameters", "t must be a number of seconds", err))
		return
	}

	cur, ok, err := h.Store.Active(c.Param("id"), pos)
	if err != nil {
		errorResponse(c, err)
		return
	}

	resp := activeResp{Position: pos, Clock: caption.FormatClock(pos)}
	if ok {
		resp.Caption = &cur
	}
	success(c, resp)
}

// Export serves the captions as a file download.
func (h *Handler) Export(c *gin.Context) {
	format, err := subtitle.ParseFormat(c.Param("format"))
	if err != nil {
		errorResponse(c, apperrors.Wrap(apperrors.CodeUnsupportedFmt, "Unsupported subtitle format", err))
		return
	}

	body, err := h.Store.Export(c.Param("id"), format)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+subtitle.DownloadName(format)+`"`)
	c.Data(http.StatusOK, subtitle.ContentType(format)+"; charset=utf-8", []byte(body))
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
