// Package pagination parses limit/offset query parameters and builds the
// meta block of list responses.
package pagination

import (
	"math"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/limo-booking/pkg/common"
)

const (
	// DefaultLimit is the default number of items per page
	DefaultLimit = 20
	// MaxLimit is the maximum number of items per page
	MaxLimit = 100
)

// Params represents pagination parameters
type Params struct {
	Limit  int `form:"limit" json:"limit"`
	Offset int `form:"offset" json:"offset"`
}

// Normalize clamps the limit to [1, MaxLimit] and the offset to >= 0
func (p Params) Normalize() Params {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ParseParams reads limit and offset from the query string. Unparsable
// values fall back to the defaults.
func ParseParams(c *gin.Context) Params {
	var params Params
	if err := c.ShouldBindQuery(&params); err != nil {
		return Params{}.Normalize()
	}
	return params.Normalize()
}

// BuildMeta creates pagination metadata for responses
func BuildMeta(params Params, total int64) *common.Meta {
	meta := &common.Meta{
		Limit:   params.Limit,
		Offset:  params.Offset,
		Total:   total,
		HasMore: int64(params.Offset+params.Limit) < total,
	}
	if params.Limit > 0 {
		meta.TotalPages = int(math.Ceil(float64(total) / float64(params.Limit)))
	}
	return meta
}
