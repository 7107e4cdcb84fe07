package features

import (
	"fmt"
	"time"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
	"github.com/rakeshcr92/InsiderNet/pkg/util"
)

// ComputeCalendarFeatures derives weekday, weekend and month flags for each
// distinct date, in input order.
func ComputeCalendarFeatures(dates []string) (models.CalendarTable, error) {
	seen := make(map[string]bool, len(dates))
	rows := make([]models.CalendarRow, 0, len(dates))
	for _, d := range dates {
		if seen[d] {
			continue
		}
		seen[d] = true

		day, err := util.ParseDay(d)
		if err != nil {
			return models.CalendarTable{}, fmt.Errorf("calendar: %w", err)
		}
		dow := mondayFirst(day.Weekday())
		rows = append(rows, models.CalendarRow{
			Date: d,
			CalendarFeatures: models.CalendarFeatures{
				DayOfWeek: dow,
				IsWeekend: boolInt(dow >= 5),
				Month:     int(day.Month()),
			},
		})
	}
	return models.CalendarTable{Rows: rows}, nil
}

// mondayFirst maps time.Weekday (Sunday=0) to 0=Monday..6=Sunday.
func mondayFirst(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
