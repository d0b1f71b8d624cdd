package handler

import (
	"time"

	"tourportal/pkg/apperror"
	"tourportal/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError maps a service error onto the response envelope. Unclassified
// errors become 500 without leaking internals to the client.
func writeError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	msg := err.Error()
	if status == 500 {
		msg = "internal server error"
	}
	c.JSON(status, response.Error(status, msg))
}

// parseTimeRange reads from/to query params (RFC3339 or YYYY-MM-DD) and
// defaults to the trailing 30 days. The range is half-open: [from, to).
func parseTimeRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if v := c.Query("from"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.Validation("invalid from parameter")
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.Validation("invalid to parameter")
		}
		to = t
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, apperror.Validation("to must be after from")
	}
	return from, to, nil
}

func parseTimeParam(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
