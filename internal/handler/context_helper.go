package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/league-scheduler-api/internal/middleware"
	appErrors "github.com/noah-isme/league-scheduler-api/pkg/errors"
	"github.com/noah-isme/league-scheduler-api/pkg/response"
)

// respondCached writes data and reports whether it was served from cache.
func respondCached(c *gin.Context, data interface{}, hit bool) {
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, data, middleware.ExtractMeta(c))
}

// intParam reads a non-negative integer path parameter.
func intParam(c *gin.Context, name string) (int, error) {
	raw := c.Param(name)
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be a non-negative integer")
	}
	return v, nil
}

func bindError(err error, subject string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid "+subject+" payload")
}
