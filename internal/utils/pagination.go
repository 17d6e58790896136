package utils

import (
	"regexp"
	"strconv"

	"github.com/jcamil/bienes-raices/internal/constants"
)

// pagePattern accepts one or more digits without a leading zero. Anything
// else (empty, "0", "01", "abc", "-1", "1.5") is rejected and the caller
// redirects to page 1.
var pagePattern = regexp.MustCompile(`^[1-9][0-9]*$`)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePage validates the raw "pagina" query value against the strict digit
// pattern. There is no upper bound: a page past the data yields an empty
// result set, not an error.
func ParsePage(raw string) (PaginationParams, bool) {
	if !pagePattern.MatchString(raw) {
		return PaginationParams{}, false
	}

	page, err := strconv.Atoi(raw)
	if err != nil {
		return PaginationParams{}, false
	}

	return PaginationParams{
		Page:   page,
		Limit:  constants.PageSize,
		Offset: (page - 1) * constants.PageSize,
	}, true
}

// PageCount returns the number of pages needed for total items.
func PageCount(total int64) int {
	pages := total / constants.PageSize
	if total%constants.PageSize != 0 {
		pages++
	}
	return int(pages)
}
