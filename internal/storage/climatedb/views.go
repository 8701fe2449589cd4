package climatedb

import (
	"context"
	"fmt"
	"time"

	"github.com/chrissnell/cropclimate/internal/log"
)

// MaterializedViews lists every view the views query set reads. All of them
// are built from base tables only, so they can be refreshed in any order.
var MaterializedViews = []string{
	"weather_avg_mv",
	"state_avg_precip_mv",
	"pollution_season_avg_mv",
	"weather_season_avg_mv",
	"temperature_season_avg_mv",
	"crop_season_summary_mv",
	"pollution_avg_mv_year",
	"weather_avg_mv_year",
	"temperature_avg_mv_year",
	"crop_summary_mv_year",
	"crop_yearly_mv",
	"pollution_yearly_mv",
	"precip_yearly_mv",
	"temperature_yearly_mv",
	"pollution_label_mv",
	"temp_label_mv",
	"precip_label_mv",
	"pollution_avg_by_year_state_mv",
	"temperature_avg_by_year_state_mv",
	"precip_avg_by_year_state_mv",
}

// RefreshViews recomputes every materialized view from the base tables
func (r *Repository) RefreshViews(ctx context.Context) error {
	for _, view := range MaterializedViews {
		started := time.Now()
		// view names come from the fixed list above
		if err := r.db.WithContext(ctx).Exec("REFRESH MATERIALIZED VIEW " + view).Error; err != nil {
			return fmt.Errorf("error refreshing %s: %w", view, err)
		}
		log.Infow("refreshed materialized view", "view", view, "duration", time.Since(started))
	}
	return nil
}
