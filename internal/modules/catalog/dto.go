package catalog

import "funbook/internal/domain"

type ActivityDetail struct {
	domain.Activity
	EffectivePrice float64           `json:"effective_price"`
	Schedules      []domain.Schedule `json:"schedules"`
}

type ListQuery struct {
	CategoryID int64
	Limit      int
	Offset     int
}
