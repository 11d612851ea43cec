package server

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mgpai22/capstudio/internal/apperrors"
	"github.com/mgpai22/capstudio/internal/caption"
)

// Response is the standard API response structure
type Response struct {
	Error  int32  `json:"error"`            // Error code (0 = success)
	Msg    string `json:"msg"`              // Human-readable message
	Detail string `json:"detail,omitempty"` // Additional error details
	Data   any    `json:"data"`             // Response payload
}

func success(c *gin.Context, data any) {
	c.JSON(200, Response{
		Error: apperrors.CodeSuccess,
		Msg:   "Success",
		Data:  data,
	})
}

func errorResponse(c *gin.Context, err error) {
	c.JSON(200, fromError(err))
}

var reasonCodes = map[caption.Reason]int{
	caption.ReasonEmptyText:        apperrors.CodeEmptyText,
	caption.ReasonMissingTimes:     apperrors.CodeMissingTimes,
	caption.ReasonInvertedInterval: apperrors.CodeInvertedInterval,
	caption.ReasonOutOfRange:       apperrors.CodeOutOfRange,
	caption.ReasonOverlap:          apperrors.CodeOverlap,
}

// fromError converts an error to a Response. Caption rejections keep
// their user facing message.
func fromError(err error) Response {
	if err == nil {
		return Response{Error: apperrors.CodeSuccess, Msg: "Success"}
	}

	if reason, ok := caption.ReasonOf(err); ok {
		var rej *caption.Rejection
		errors.As(err, &rej)
		return Response{
			Error:  int32(reasonCodes[reason]),
			Msg:    rej.Message,
			Detail: string(reason),
		}
	}
	if errors.Is(err, caption.ErrCaptionNotFound) {
		return Response{
			Error: apperrors.CodeCaptionNotFound,
			Msg:   "Caption not found",
		}
	}

	if errors.Is(err, caption.ErrUnknownEdge) {
		return Response{
			Error:  apperrors.CodeInvalidParams,
			Msg:    "Invalid parameters",
			Detail: err.Error(),
		}
	}

	return Response{
		Error:  int32(apperrors.GetCode(err)),
		Msg:    apperrors.GetMessage(err),
		Detail: apperrors.GetDetail(err),
	}
}
