package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/schema"
	"github.com/rs/zerolog/log"
)

const (
	DEFAULT_LIMIT = 100
	MAX_LIMIT     = 1000
)

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type QueryParams struct {
	Limit int `schema:"limit"`
}

type Meta struct {
	Height     uint64 `json:"height"`
	Limit      int    `json:"limit"`
	TotalItems int    `json:"total_items"`
}

type QueryResponse struct {
	Meta Meta        `json:"meta"`
	Data interface{} `json:"data"`
}

func writeError(c *gin.Context, message string, code int) {
	c.AbortWithStatusJSON(code, Error{
		Code:    code,
		Message: message,
	})
}

func BadRequestErrorHandler(c *gin.Context, err error) {
	writeError(c, err.Error(), http.StatusBadRequest)
}

func NotFoundErrorHandler(c *gin.Context, err error) {
	writeError(c, err.Error(), http.StatusNotFound)
}

func UnauthorizedErrorHandler(c *gin.Context, err error) {
	writeError(c, err.Error(), http.StatusUnauthorized)
}

func InternalErrorHandler(c *gin.Context) {
	writeError(c, "An unexpected error occurred.", http.StatusInternalServerError)
}

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// ParseQueryParams decodes the query string and clamps the limit to [1, MAX_LIMIT].
func ParseQueryParams(r *http.Request) (QueryParams, error) {
	var params QueryParams
	if err := queryDecoder.Decode(&params, r.URL.Query()); err != nil {
		log.Debug().Err(err).Msg("Error parsing query params")
		return QueryParams{}, err
	}
	if params.Limit <= 0 {
		params.Limit = DEFAULT_LIMIT
	}
	if params.Limit > MAX_LIMIT {
		params.Limit = MAX_LIMIT
	}
	return params, nil
}
