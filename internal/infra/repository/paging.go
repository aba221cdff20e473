package repository

import "gorm.io/gorm"

// 件数を数えてから新しい順にページを取る。qは条件を積んだModel付きクエリ
func findPage[T any](q *gorm.DB, page, limit int) ([]T, int64, error) {
	page = max(page, 1)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []T{}, 0, err
	}

	items := []T{}
	if err := q.Order("id desc").Limit(limit).Offset((page - 1) * limit).Find(&items).Error; err != nil {
		return []T{}, 0, err
	}
	return items, total, nil
}

// 一覧のlimitの既定値と上限
func clampLimit(limit, upper int) int {
	if limit <= 0 || limit > upper {
		return 50
	}
	return limit
}
