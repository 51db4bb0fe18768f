package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Page описывает одну страницу элементов списка.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	HasNext  bool  `json:"has_next"`
	HasPrev  bool  `json:"has_prev"`
	Total    int64 `json:"total"`
}

const defaultPageSize = 20

// NewPage собирает метаданные страницы поверх (items, total) из
// репозитория. page нумеруется с 1; при некорректных значениях
// используются дефолты.
func NewPage[T any](items []T, total int64, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	if items == nil {
		items = []T{}
	}

	end := int64((page-1)*pageSize) + int64(len(items))

	return Page[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		HasNext:  end < total,
		HasPrev:  page > 1,
		Total:    total,
	}
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// PageParams переводит (page, pageSize) в (limit, offset) репозитория.
func PageParams(page, pageSize int) (limit, offset int) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	return pageSize, (page - 1) * pageSize
}
