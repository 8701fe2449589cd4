package climatedb

// StateClimateSummary is the 2016-2022 climate profile of one state
type StateClimateSummary struct {
	State            string   `gorm:"column:state" json:"state"`
	AvgCO            *float64 `gorm:"column:avg_co" json:"avg_co"`
	AvgNO2           *float64 `gorm:"column:avg_no2" json:"avg_no2"`
	AvgSO2           *float64 `gorm:"column:avg_so2" json:"avg_so2"`
	AvgO3            *float64 `gorm:"column:avg_o3" json:"avg_o3"`
	AvgPrecipitation *float64 `gorm:"column:avg_precipitation" json:"avg_precipitation"`
	AvgTemp          *float64 `gorm:"column:avg_temp" json:"avg_temp"`
	DominantCrop     *string  `gorm:"column:dominant_crop" json:"dominant_crop"`
}

// StateSeasonSummary is a state's climate profile for one season
type StateSeasonSummary struct {
	State            string   `gorm:"column:state" json:"state"`
	Season           string   `gorm:"column:season" json:"season"`
	AvgCO            *float64 `gorm:"column:avg_co" json:"avg_co"`
	AvgNO2           *float64 `gorm:"column:avg_no2" json:"avg_no2"`
	AvgSO2           *float64 `gorm:"column:avg_so2" json:"avg_so2"`
	AvgO3            *float64 `gorm:"column:avg_o3" json:"avg_o3"`
	AvgPrecipitation *float64 `gorm:"column:avg_precipitation" json:"avg_precipitation"`
	AvgTemp          *float64 `gorm:"column:avg_temp" json:"avg_temp"`
	DominantCrop     *string  `gorm:"column:dominant_crop" json:"dominant_crop"`
}

// StateYearSummary is a state's climate profile for one year
type StateYearSummary struct {
	Year             int      `gorm:"column:year" json:"year"`
	State            string   `gorm:"column:state" json:"state"`
	AvgCO            *float64 `gorm:"column:avg_co" json:"avg_co"`
	AvgNO2           *float64 `gorm:"column:avg_no2" json:"avg_no2"`
	AvgSO2           *float64 `gorm:"column:avg_so2" json:"avg_so2"`
	AvgO3            *float64 `gorm:"column:avg_o3" json:"avg_o3"`
	AvgPrecipitation *float64 `gorm:"column:avg_precipitation" json:"avg_precipitation"`
	AvgTemp          *float64 `gorm:"column:avg_temp" json:"avg_temp"`
	DominantCrop     *string  `gorm:"column:dominant_crop" json:"dominant_crop"`
}

type CropRegionFit struct {
	Crop       string   `gorm:"column:crop" json:"crop"`
	BestRegion string   `gorm:"column:best_region" json:"best_region"`
	AvgYield   *float64 `gorm:"column:avg_yield" json:"avg_yield"`
}

type CropTempRange struct {
	Crop     string   `gorm:"column:crop" json:"crop"`
	MinTempF *float64 `gorm:"column:min_temp_f" json:"min_temp_f"`
	MaxTempF *float64 `gorm:"column:max_temp_f" json:"max_temp_f"`
}

type CropPrecipRange struct {
	Crop        string   `gorm:"column:crop" json:"crop"`
	MinPrecipMM *float64 `gorm:"column:min_precip_mm" json:"min_precip_mm"`
	MaxPrecipMM *float64 `gorm:"column:max_precip_mm" json:"max_precip_mm"`
}

type CropPollutionRange struct {
	Crop              string   `gorm:"column:crop" json:"crop"`
	MinPollutionIndex *float64 `gorm:"column:min_pollution_index" json:"min_pollution_index"`
	MaxPollutionIndex *float64 `gorm:"column:max_pollution_index" json:"max_pollution_index"`
}

// CropConditionLabel names, per axis, the tertile in which a crop yields best.
// The three labels are chosen independently.
type CropConditionLabel struct {
	Crop          string `gorm:"column:crop" json:"crop"`
	BestPollution string `gorm:"column:best_pollution" json:"best_pollution"`
	BestTemp      string `gorm:"column:best_temp" json:"best_temp"`
	BestPrecip    string `gorm:"column:best_precip" json:"best_precip"`
}

type CropYearTrend struct {
	Year             int      `gorm:"column:year" json:"year"`
	State            string   `gorm:"column:state" json:"state"`
	AvgYield         *float64 `gorm:"column:avg_yield" json:"avg_yield"`
	AvgCO            *float64 `gorm:"column:avg_co" json:"avg_co"`
	AvgNO2           *float64 `gorm:"column:avg_no2" json:"avg_no2"`
	AvgSO2           *float64 `gorm:"column:avg_so2" json:"avg_so2"`
	AvgO3            *float64 `gorm:"column:avg_o3" json:"avg_o3"`
	AvgPrecipitation *float64 `gorm:"column:avg_precipitation" json:"avg_precipitation"`
	AvgTemp          *float64 `gorm:"column:avg_temp" json:"avg_temp"`
}

type CropResilience struct {
	Crop               string   `gorm:"column:crop" json:"crop"`
	AvgYieldInExtremes *float64 `gorm:"column:avg_yield_in_extremes" json:"avg_yield_in_extremes"`
}

type SeasonBestCrop struct {
	Season            string   `gorm:"column:season" json:"season"`
	BestCrop          string   `gorm:"column:best_crop" json:"best_crop"`
	AvgYieldKgPerAcre *float64 `gorm:"column:avg_yield_kg_per_acre" json:"avg_yield_kg_per_acre"`
}

type CropBestSeason struct {
	Crop              string   `gorm:"column:crop" json:"crop"`
	BestSeasonToPlant string   `gorm:"column:best_season_to_plant" json:"best_season_to_plant"`
	AvgYieldKgPerAcre *float64 `gorm:"column:avg_yield_kg_per_acre" json:"avg_yield_kg_per_acre"`
}

type StateBestCrop struct {
	State             string   `gorm:"column:state" json:"state"`
	BestCropToPlant   string   `gorm:"column:best_crop_to_plant" json:"best_crop_to_plant"`
	AvgYieldKgPerAcre *float64 `gorm:"column:avg_yield_kg_per_acre" json:"avg_yield_kg_per_acre"`
}

// ConditionBestCrop is the top-yielding crop inside one tertile of an axis
type ConditionBestCrop struct {
	Group    string   `gorm:"column:group_label" json:"group"`
	Crop     string   `gorm:"column:crop" json:"crop"`
	AvgYield *float64 `gorm:"column:avg_yield" json:"avg_yield"`
}
