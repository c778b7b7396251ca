package transport

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/apperr"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/models"
)

const censored = "$censored"

var sensitiveFields = []string{"password"}

// ErrorHandler renders every handler error as {"error": ...} with the status
// of its kind.
func (s *HTTPServer) ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, resp := errorResponse(err)
	if status >= http.StatusInternalServerError {
		s.logger.Errorw("Request failed.", "path", c.Path(), "error", err)
	} else {
		s.logger.Debugw("Request rejected.", "path", c.Path(), "status", status, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, resp)
	}
	if err != nil {
		s.logger.Errorw("Write error response.", "error", err)
	}
}

func errorResponse(err error) (int, models.ErrorResp) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprint(he.Message)
		if he.Code == http.StatusNotFound && he.Message == http.StatusText(http.StatusNotFound) {
			msg = "route not found"
		}
		return he.Code, models.ErrorResp{Error: msg}
	}

	var invalid *apperr.InvalidActivitiesError
	if errors.As(err, &invalid) {
		return http.StatusBadRequest, models.ErrorResp{
			Error:             "the following activities do not exist",
			InvalidActivities: invalid.Names,
		}
	}

	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, models.ErrorResp{Error: apperr.Message(err)}
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, models.ErrorResp{Error: apperr.Message(err)}
	case errors.Is(err, apperr.ErrAuthentication):
		return http.StatusUnauthorized, models.ErrorResp{Error: apperr.Message(err)}
	case errors.Is(err, apperr.ErrAuthorization):
		return http.StatusForbidden, models.ErrorResp{Error: apperr.Message(err)}
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, models.ErrorResp{Error: apperr.Message(err)}
	case errors.Is(err, apperr.ErrStore):
		return http.StatusServiceUnavailable, models.ErrorResp{Error: "graph store unavailable"}
	default:
		return http.StatusInternalServerError, models.ErrorResp{Error: "internal error"}
	}
}

func (s *HTTPServer) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Infow("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
				"remote_ip", v.RemoteIP,
			)
			return nil
		},
	})
}

func (s *HTTPServer) dumpBody(c echo.Context, reqBody, resBody []byte) {
	if len(reqBody) == 0 {
		return
	}
	s.logger.Debugw("request body", "path", c.Path(), "body", string(censorBody(reqBody)))
}

// censorBody masks credentials in a JSON object body. Anything else is
// returned untouched.
func censorBody(body []byte) []byte {
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return body
	}

	changed := false
	for _, key := range sensitiveFields {
		if _, ok := fields[key]; ok {
			fields[key] = censored
			changed = true
		}
	}
	if !changed {
		return body
	}

	out, err := json.Marshal(fields)
	if err != nil {
		return body
	}
	return out
}
