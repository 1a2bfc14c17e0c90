package utils

import (
	"strconv"

	"gorm.io/gorm"
)

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ParsePage interprets a raw ?page= value. Anything that is not a positive
// integer degrades to page 1 rather than erroring.
func ParsePage(raw string) int {
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	return 1
}

// Paginate counts the query, clamps the requested page into the valid
// range, and loads that page into out. A page past the end yields the last
// page; an empty result set still reports one (empty) page.
func Paginate(q *gorm.DB, page, pageSize int, out interface{}) (Pagination, error) {
	if pageSize < 1 {
		pageSize = 10
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(out).Error; err != nil {
		return Pagination{}, err
	}

	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}
