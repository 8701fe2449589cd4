package climatedb

// Crop and climate questions. Where two variants exist, the *ViewsSQL form
// reads the materialized views created by the cropdb migrations and the
// *BaseSQL form recomputes the same joins from the base tables.

const stateSummaryViewsSQL = `
WITH pollution_avg AS (
  SELECT
    UPPER("State") AS state,
    AVG("CO Mean") AS avg_co,
    AVG("NO2 Mean") AS avg_no2,
    AVG("SO2 Mean") AS avg_so2,
    AVG("O3 Mean") AS avg_o3
  FROM pollution_data
  WHERE "Year" BETWEEN 2016 AND 2022 AND UPPER("State") = ?
  GROUP BY UPPER("State")
),
temperature_avg AS (
  SELECT
    UPPER(state) AS state,
    AVG(average_temp) AS avg_temp
  FROM temperature_data
  WHERE year BETWEEN 2016 AND 2022 AND UPPER(state) = ?
  GROUP BY UPPER(state)
),
crop_yield_ranked AS (
  SELECT
    UPPER(state) AS state,
    crop,
    AVG(yield_kg_per_acre) AS avg_yield,
    ROW_NUMBER() OVER (
      PARTITION BY UPPER(state)
      ORDER BY AVG(yield_kg_per_acre) DESC
    ) AS rank
  FROM crop_data
  WHERE year BETWEEN 2016 AND 2022 AND UPPER(state) = ?
  GROUP BY UPPER(state), crop
),
crop_summary AS (
  SELECT state, crop AS dominant_crop
  FROM crop_yield_ranked
  WHERE rank = 1
)
SELECT
  p.state,
  ROUND(p.avg_co::numeric, 4) AS avg_co,
  ROUND(p.avg_no2::numeric, 4) AS avg_no2,
  ROUND(p.avg_so2::numeric, 4) AS avg_so2,
  ROUND(p.avg_o3::numeric, 4) AS avg_o3,
  ROUND(w.avg_precipitation::numeric, 2) AS avg_precipitation,
  ROUND(t.avg_temp::numeric, 2) AS avg_temp,
  c.dominant_crop
FROM pollution_avg p
LEFT JOIN weather_avg_mv w ON p.state = w.state
LEFT JOIN temperature_avg t ON p.state = t.state
LEFT JOIN crop_summary c ON p.state = c.state`

const stateSummaryBaseSQL = `
WITH pollution_avg AS (
  SELECT
    UPPER("State") AS state,
    AVG("CO Mean") AS avg_co,
    AVG("NO2 Mean") AS avg_no2,
    AVG("SO2 Mean") AS avg_so2,
    AVG("O3 Mean") AS avg_o3
  FROM pollution_data
  WHERE "Year" BETWEEN 2016 AND 2022 AND UPPER("State") = ?
  GROUP BY UPPER("State")
),
weather_avg AS (
  SELECT
    UPPER(state) AS state,
    AVG(precipitation) AS avg_precipitation
  FROM weather_events
  WHERE start_date BETWEEN '2016-01-01' AND '2022-12-31' AND UPPER(state) = ?
  GROUP BY UPPER(state)
),
temperature_avg AS (
  SELECT
    UPPER(state) AS state,
    AVG(average_temp) AS avg_temp
  FROM temperature_data
  WHERE year BETWEEN 2016 AND 2022 AND UPPER(state) = ?
  GROUP BY UPPER(state)
),
crop_yield_ranked AS (
  SELECT
    UPPER(state) AS state,
    crop,
    AVG(yield_kg_per_acre) AS avg_yield,
    ROW_NUMBER() OVER (
      PARTITION BY UPPER(state)
      ORDER BY AVG(yield_kg_per_acre) DESC
    ) AS rank
  FROM crop_data
  WHERE year BETWEEN 2016 AND 2022 AND UPPER(state) = ?
  GROUP BY UPPER(state), crop
),
crop_summary AS (
  SELECT state, crop AS dominant_crop
  FROM crop_yield_ranked
  WHERE rank = 1
)
SELECT
  p.state,
  ROUND(p.avg_co::numeric, 4) AS avg_co,
  ROUND(p.avg_no2::numeric, 4) AS avg_no2,
  ROUND(p.avg_so2::numeric, 4) AS avg_so2,
  ROUND(p.avg_o3::numeric, 4) AS avg_o3,
  ROUND(w.avg_precipitation::numeric, 2) AS avg_precipitation,
  ROUND(t.avg_temp::numeric, 2) AS avg_temp,
  c.dominant_crop
FROM pollution_avg p
LEFT JOIN weather_avg w ON p.state = w.state
LEFT JOIN temperature_avg t ON p.state = t.state
LEFT JOIN crop_summary c ON p.state = c.state`

const stateSeasonsViewsSQL = `
SELECT
  p.norm_state AS state,
  p.norm_season AS season,
  ROUND(p.avg_co::numeric, 4) AS avg_co,
  ROUND(p.avg_no2::numeric, 4) AS avg_no2,
  ROUND(p.avg_so2::numeric, 4) AS avg_so2,
  ROUND(p.avg_o3::numeric, 4) AS avg_o3,
  ROUND(w.avg_precipitation::numeric, 4) AS avg_precipitation,
  ROUND(t.avg_temp::numeric, 2) AS avg_temp,
  c.dominant_crop
FROM pollution_season_avg_mv p
LEFT JOIN weather_season_avg_mv w ON p.norm_state = w.norm_state AND p.norm_season = w.norm_season
LEFT JOIN temperature_season_avg_mv t ON p.norm_state = t.norm_state AND p.norm_season = t.norm_season
LEFT JOIN crop_season_summary_mv c ON p.norm_state = c.norm_state AND p.norm_season = c.norm_season
WHERE p.norm_state = ?
ORDER BY p.norm_season`

const stateSeasonsBaseSQL = `
WITH pollution_avg AS (
  SELECT UPPER("State") AS state, INITCAP("Season") AS season,
         AVG("CO Mean") AS avg_co,
         AVG("NO2 Mean") AS avg_no2,
         AVG("SO2 Mean") AS avg_so2,
         AVG("O3 Mean") AS avg_o3
  FROM pollution_data
  WHERE UPPER("State") = ?
  GROUP BY UPPER("State"), INITCAP("Season")
),
weather_avg AS (
  SELECT UPPER(state) AS state, INITCAP(season) AS season,
         AVG(precipitation) AS avg_precipitation
  FROM weather_events
  WHERE UPPER(state) = ?
  GROUP BY UPPER(state), INITCAP(season)
),
temperature_avg AS (
  SELECT UPPER(state) AS state, INITCAP(season) AS season,
         AVG(average_temp) AS avg_temp
  FROM temperature_data
  WHERE UPPER(state) = ?
  GROUP BY UPPER(state), INITCAP(season)
),
crop_yield_ranked AS (
  SELECT UPPER(state) AS state, INITCAP(season) AS season,
         crop,
         ROW_NUMBER() OVER (
           PARTITION BY UPPER(state), INITCAP(season)
           ORDER BY AVG(yield_kg_per_acre) DESC
         ) AS rank
  FROM crop_data
  WHERE UPPER(state) = ?
  GROUP BY UPPER(state), INITCAP(season), crop
)
SELECT
  p.state,
  p.season,
  ROUND(p.avg_co::numeric, 4) AS avg_co,
  ROUND(p.avg_no2::numeric, 4) AS avg_no2,
  ROUND(p.avg_so2::numeric, 4) AS avg_so2,
  ROUND(p.avg_o3::numeric, 4) AS avg_o3,
  ROUND(w.avg_precipitation::numeric, 4) AS avg_precipitation,
  ROUND(t.avg_temp::numeric, 2) AS avg_temp,
  c.crop AS dominant_crop
FROM pollution_avg p
LEFT JOIN weather_avg w ON p.state = w.state AND p.season = w.season
LEFT JOIN temperature_avg t ON p.state = t.state AND p.season = t.season
LEFT JOIN crop_yield_ranked c ON p.state = c.state AND p.season = c.season AND c.rank = 1
ORDER BY p.season`

const stateYearsViewsSQL = `
SELECT
  p.year,
  p.norm_state AS state,
  ROUND(p.avg_co::numeric, 4) AS avg_co,
  ROUND(p.avg_no2::numeric, 4) AS avg_no2,
  ROUND(p.avg_so2::numeric, 4) AS avg_so2,
  ROUND(p.avg_o3::numeric, 4) AS avg_o3,
  ROUND(w.avg_precipitation::numeric, 2) AS avg_precipitation,
  ROUND(t.avg_temp::numeric, 2) AS avg_temp,
  c.dominant_crop
FROM pollution_avg_mv_year p
LEFT JOIN weather_avg_mv_year w ON p.year = w.year AND p.norm_state = w.norm_state
LEFT JOIN temperature_avg_mv_year t ON p.year = t.year AND p.norm_state = t.norm_state
LEFT JOIN crop_summary_mv_year c ON p.year = c.year AND p.norm_state = c.norm_state
WHERE p.norm_state = ?
ORDER BY p.year`

const stateYearsBaseSQL = `
WITH pollution_avg AS (
  SELECT
    "Year" AS year,
    UPPER("State") AS state,
    AVG("CO Mean") AS avg_co,
    AVG("NO2 Mean") AS avg_no2,
    AVG("SO2 Mean") AS avg_so2,
    AVG("O3 Mean") AS avg_o3
  FROM pollution_data
  WHERE "Year" BETWEEN 2016 AND 2022 AND UPPER("State") = ?
  GROUP BY "Year", UPPER("State")
),
weather_avg AS (
  SELECT
    EXTRACT(YEAR FROM start_date)::int AS year,
    UPPER(state) AS state,
    AVG(precipitation) AS avg_precipitation
  FROM weather_events
  WHERE start_date BETWEEN '2016-01-01' AND '2022-12-31' AND UPPER(state) = ?
  GROUP BY EXTRACT(YEAR FROM start_date), UPPER(state)
),
temperature_avg AS (
  SELECT
    year,
    UPPER(state) AS state,
    AVG(average_temp) AS avg_temp
  FROM temperature_data
  WHERE year BETWEEN 2016 AND 2022 AND UPPER(state) = ?
  GROUP BY year, UPPER(state)
),
crop_yield_ranked AS (
  SELECT
    year,
    UPPER(state) AS state,
    crop,
    ROW_NUMBER() OVER (
      PARTITION BY year, UPPER(state)
      ORDER BY AVG(yield_kg_per_acre) DESC
    ) AS rank
  FROM crop_data
  WHERE year BETWEEN 2016 AND 2022 AND UPPER(state) = ?
  GROUP BY year, UPPER(state), crop
)
SELECT
  p.year,
  p.state,
  ROUND(p.avg_co::numeric, 4) AS avg_co,
  ROUND(p.avg_no2::numeric, 4) AS avg_no2,
  ROUND(p.avg_so2::numeric, 4) AS avg_so2,
  ROUND(p.avg_o3::numeric, 4) AS avg_o3,
  ROUND(w.avg_precipitation::numeric, 2) AS avg_precipitation,
  ROUND(t.avg_temp::numeric, 2) AS avg_temp,
  c.crop AS dominant_crop
FROM pollution_avg p
LEFT JOIN weather_avg w ON p.year = w.year AND p.state = w.state
LEFT JOIN temperature_avg t ON p.year = t.year AND p.state = t.state
LEFT JOIN crop_yield_ranked c ON p.year = c.year AND p.state = c.state AND c.rank = 1
ORDER BY p.year`

// bestRegionByCropSQL takes the state->region table as one JSON object
const bestRegionByCropSQL = `
WITH state_regions AS (
  SELECT key AS state, value AS region
  FROM json_each_text(CAST(? AS json))
),
regional_yields AS (
  SELECT sr.region, c.crop, AVG(c.yield_kg_per_acre) AS avg_yield
  FROM crop_data c
  JOIN state_regions sr ON UPPER(c.state) = sr.state
  GROUP BY sr.region, c.crop
),
ranked AS (
  SELECT crop, region, avg_yield,
         ROW_NUMBER() OVER (PARTITION BY crop ORDER BY avg_yield DESC) AS rank
  FROM regional_yields
)
SELECT crop, region AS best_region, ROUND(avg_yield::numeric, 2) AS avg_yield
FROM ranked
WHERE rank = 1
ORDER BY crop`

const tempRangeByCropSQL = `
WITH yearly_state_temp AS (
  SELECT
    year,
    UPPER(state) AS state,
    AVG(average_temp) AS yearly_avg_temp
  FROM temperature_data
  WHERE year BETWEEN 2016 AND 2022
  GROUP BY year, UPPER(state)
),
state_avg_temp AS (
  SELECT state, AVG(yearly_avg_temp) AS avg_temp_f
  FROM yearly_state_temp
  GROUP BY state
),
crop_states AS (
  SELECT DISTINCT UPPER(state) AS state, crop
  FROM crop_data
  WHERE year BETWEEN 2016 AND 2022
)
SELECT
  cs.crop,
  ROUND(MIN(sat.avg_temp_f)::numeric, 1) AS min_temp_f,
  ROUND(MAX(sat.avg_temp_f)::numeric, 1) AS max_temp_f
FROM crop_states cs
JOIN state_avg_temp sat ON cs.state = sat.state
GROUP BY cs.crop
ORDER BY cs.crop`

const precipRangeByCropViewsSQL = `
SELECT
  c.crop,
  ROUND(MIN(p.avg_precip)::numeric, 2) AS min_precip_mm,
  ROUND(MAX(p.avg_precip)::numeric, 2) AS max_precip_mm
FROM (
  SELECT DISTINCT UPPER(state) AS state, crop
  FROM crop_data
  WHERE year BETWEEN 2016 AND 2022
) c
JOIN state_avg_precip_mv p ON c.state = p.state
GROUP BY c.crop
ORDER BY c.crop`

const precipRangeByCropBaseSQL = `
WITH state_avg_precip AS (
  SELECT
    UPPER(state) AS state,
    ROUND(AVG(precipitation)::numeric, 2) AS avg_precip
  FROM weather_events
  WHERE start_date BETWEEN '2016-01-01' AND '2022-12-31'
  GROUP BY UPPER(state)
)
SELECT
  c.crop,
  ROUND(MIN(p.avg_precip)::numeric, 2) AS min_precip_mm,
  ROUND(MAX(p.avg_precip)::numeric, 2) AS max_precip_mm
FROM (
  SELECT DISTINCT UPPER(state) AS state, crop
  FROM crop_data
  WHERE year BETWEEN 2016 AND 2022
) c
JOIN state_avg_precip p ON c.state = p.state
GROUP BY c.crop
ORDER BY c.crop`

const pollutionRangeByCropSQL = `
WITH state_pollution_index AS (
  SELECT
    UPPER("State") AS state,
    AVG("CO Mean") + AVG("NO2 Mean") + AVG("SO2 Mean") + AVG("O3 Mean") AS pollution_index
  FROM pollution_data
  WHERE "Year" BETWEEN 2016 AND 2022
  GROUP BY UPPER("State")
),
crop_states AS (
  SELECT DISTINCT UPPER(state) AS state, crop
  FROM crop_data
  WHERE year BETWEEN 2016 AND 2022
)
SELECT
  cs.crop,
  ROUND(MIN(spi.pollution_index)::numeric, 2) AS min_pollution_index,
  ROUND(MAX(spi.pollution_index)::numeric, 2) AS max_pollution_index
FROM crop_states cs
JOIN state_pollution_index spi ON cs.state = spi.state
GROUP BY cs.crop
ORDER BY cs.crop`

const bestConditionsViewsSQL = `
WITH crop_pollution_best AS (
  SELECT
    crop,
    pollution_group AS best_pollution,
    ROW_NUMBER() OVER (PARTITION BY crop ORDER BY AVG(yield_kg_per_acre) DESC) AS rank
  FROM pollution_label_mv
  GROUP BY crop, pollution_group
),
crop_temp_best AS (
  SELECT
    crop,
    temp_group AS best_temp,
    ROW_NUMBER() OVER (PARTITION BY crop ORDER BY AVG(yield_kg_per_acre) DESC) AS rank
  FROM temp_label_mv
  GROUP BY crop, temp_group
),
crop_precip_best AS (
  SELECT
    crop,
    precip_group AS best_precip,
    ROW_NUMBER() OVER (PARTITION BY crop ORDER BY AVG(yield_kg_per_acre) DESC) AS rank
  FROM precip_label_mv
  GROUP BY crop, precip_group
)
SELECT
  p.crop,
  p.best_pollution,
  t.best_temp,
  r.best_precip
FROM crop_pollution_best p
JOIN crop_temp_best t ON p.crop = t.crop AND t.rank = 1
JOIN crop_precip_best r ON p.crop = r.crop AND r.rank = 1
WHERE p.rank = 1
ORDER BY p.crop`

const bestConditionsBaseSQL = `
WITH crop_pollution AS (
  SELECT
    c.crop,
    c.yield_kg_per_acre,
    (p."CO Mean" + p."NO2 Mean" + p."SO2 Mean" + p."O3 Mean") AS pollution_score
  FROM crop_data c
  JOIN pollution_data p
    ON c.year = p."Year" AND UPPER(c.state) = UPPER(p."State")
  WHERE c.year BETWEEN 2016 AND 2022
),
pollution_label AS (
  SELECT *,
    CASE NTILE(3) OVER (ORDER BY pollution_score)
      WHEN 1 THEN 'Low'
      WHEN 2 THEN 'Mid'
      ELSE 'High'
    END AS pollution_group
  FROM crop_pollution
),
crop_pollution_best AS (
  SELECT
    crop,
    pollution_group AS best_pollution,
    ROW_NUMBER() OVER (PARTITION BY crop ORDER BY AVG(yield_kg_per_acre) DESC) AS rank
  FROM pollution_label
  GROUP BY crop, pollution_group
),
crop_temp AS (
  SELECT
    c.crop,
    c.yield_kg_per_acre,
    t.average_temp
  FROM crop_data c
  JOIN temperature_data t
    ON c.year = t.year AND UPPER(c.state) = UPPER(t.state)
  WHERE c.year BETWEEN 2016 AND 2022
),
temp_label AS (
  SELECT *,
    CASE NTILE(3) OVER (ORDER BY average_temp)
      WHEN 1 THEN 'Low'
      WHEN 2 THEN 'Mid'
      ELSE 'High'
    END AS temp_group
  FROM crop_temp
),
crop_temp_best AS (
  SELECT
    crop,
    temp_group AS best_temp,
    ROW_NUMBER() OVER (PARTITION BY crop ORDER BY AVG(yield_kg_per_acre) DESC) AS rank
  FROM temp_label
  GROUP BY crop, temp_group
),
yearly_precip AS (
  SELECT
    EXTRACT(YEAR FROM start_date)::int AS year,
    UPPER(state) AS state,
    AVG(precipitation) AS avg_precip
  FROM weather_events
  WHERE start_date BETWEEN '2016-01-01' AND '2022-12-31'
  GROUP BY EXTRACT(YEAR FROM start_date), UPPER(state)
),
crop_precip AS (
  SELECT
    c.crop,
    c.yield_kg_per_acre,
    y.avg_precip
  FROM crop_data c
  JOIN yearly_precip y
    ON c.year = y.year AND UPPER(c.state) = y.state
  WHERE c.year BETWEEN 2016 AND 2022
),
precip_label AS (
  SELECT *,
    CASE NTILE(3) OVER (ORDER BY avg_precip)
      WHEN 1 THEN 'Low'
      WHEN 2 THEN 'Mid'
      ELSE 'High'
    END AS precip_group
  FROM crop_precip
),
crop_precip_best AS (
  SELECT
    crop,
    precip_group AS best_precip,
    ROW_NUMBER() OVER (PARTITION BY crop ORDER BY AVG(yield_kg_per_acre) DESC) AS rank
  FROM precip_label
  GROUP BY crop, precip_group
)
SELECT
  p.crop,
  p.best_pollution,
  t.best_temp,
  r.best_precip
FROM crop_pollution_best p
JOIN crop_temp_best t ON p.crop = t.crop AND t.rank = 1
JOIN crop_precip_best r ON p.crop = r.crop AND r.rank = 1
WHERE p.rank = 1
ORDER BY p.crop`

const cropTrendsViewsSQL = `
SELECT
  c.year,
  c.state,
  ROUND(c.avg_yield::numeric, 2) AS avg_yield,
  ROUND(p.avg_co::numeric, 4) AS avg_co,
  ROUND(p.avg_no2::numeric, 4) AS avg_no2,
  ROUND(p.avg_so2::numeric, 4) AS avg_so2,
  ROUND(p.avg_o3::numeric, 4) AS avg_o3,
  ROUND(w.avg_precipitation::numeric, 2) AS avg_precipitation,
  ROUND(t.avg_temp::numeric, 2) AS avg_temp
FROM crop_yearly_mv c
LEFT JOIN pollution_yearly_mv p ON c.year = p.year AND c.state = p.state
LEFT JOIN precip_yearly_mv w ON c.year = w.year AND c.state = w.state
LEFT JOIN temperature_yearly_mv t ON c.year = t.year AND c.state = t.state
ORDER BY c.state, c.year`

const cropTrendsBaseSQL = `
WITH crop_yearly AS (
  SELECT
    year,
    UPPER(state) AS state,
    AVG(yield_kg_per_acre) AS avg_yield
  FROM crop_data
  WHERE year BETWEEN 2016 AND 2021
  GROUP BY year, UPPER(state)
),
pollution_yearly AS (
  SELECT
    "Year" AS year,
    UPPER("State") AS state,
    AVG("CO Mean") AS avg_co,
    AVG("NO2 Mean") AS avg_no2,
    AVG("SO2 Mean") AS avg_so2,
    AVG("O3 Mean") AS avg_o3
  FROM pollution_data
  WHERE "Year" BETWEEN 2016 AND 2021
  GROUP BY "Year", UPPER("State")
),
precip_yearly AS (
  SELECT
    EXTRACT(YEAR FROM start_date)::int AS year,
    UPPER(state) AS state,
    AVG(precipitation) AS avg_precipitation
  FROM weather_events
  WHERE EXTRACT(YEAR FROM start_date)::int BETWEEN 2016 AND 2021
  GROUP BY EXTRACT(YEAR FROM start_date), UPPER(state)
),
temperature_yearly AS (
  SELECT
    year,
    UPPER(state) AS state,
    AVG(average_temp) AS avg_temp
  FROM temperature_data
  WHERE year BETWEEN 2016 AND 2021
  GROUP BY year, UPPER(state)
)
SELECT
  c.year,
  c.state,
  ROUND(c.avg_yield::numeric, 2) AS avg_yield,
  ROUND(p.avg_co::numeric, 4) AS avg_co,
  ROUND(p.avg_no2::numeric, 4) AS avg_no2,
  ROUND(p.avg_so2::numeric, 4) AS avg_so2,
  ROUND(p.avg_o3::numeric, 4) AS avg_o3,
  ROUND(w.avg_precipitation::numeric, 2) AS avg_precipitation,
  ROUND(t.avg_temp::numeric, 2) AS avg_temp
FROM crop_yearly c
LEFT JOIN pollution_yearly p ON c.year = p.year AND c.state = p.state
LEFT JOIN precip_yearly w ON c.year = w.year AND c.state = w.state
LEFT JOIN temperature_yearly t ON c.year = t.year AND c.state = t.state
ORDER BY c.state, c.year`

// resilienceClassifySQL scores each crop record against the bound bands
// (pollution low/high, temperature low/high, precipitation low/high) and
// keeps crops with more than one record extreme on two or more axes.
const resilienceClassifySQL = `
classified AS (
  SELECT
    crop,
    yield_kg_per_acre,
    CASE WHEN pollution < ? OR pollution > ? THEN 1 ELSE 0 END +
    CASE WHEN average_temp < ? OR average_temp > ? THEN 1 ELSE 0 END +
    CASE WHEN avg_precip < ? OR avg_precip > ? THEN 1 ELSE 0 END AS extreme_score
  FROM crop_env
),
crop_resilience AS (
  SELECT
    crop,
    AVG(yield_kg_per_acre) FILTER (WHERE extreme_score >= 2) AS avg_yield_in_extremes
  FROM classified
  GROUP BY crop
  HAVING COUNT(*) FILTER (WHERE extreme_score >= 2) > 1
)
SELECT
  crop,
  ROUND(avg_yield_in_extremes::numeric, 2) AS avg_yield_in_extremes
FROM crop_resilience
ORDER BY avg_yield_in_extremes DESC, crop`

const resilientCropsViewsSQL = `
WITH crop_env AS (
  SELECT
    c.crop,
    c.yield_kg_per_acre,
    p.pollution,
    t.average_temp,
    y.avg_precip
  FROM crop_data c
  LEFT JOIN pollution_avg_by_year_state_mv p ON c.year = p.year AND UPPER(c.state) = p.state
  LEFT JOIN temperature_avg_by_year_state_mv t ON c.year = t.year AND UPPER(c.state) = t.state
  LEFT JOIN precip_avg_by_year_state_mv y ON c.year = y.year AND UPPER(c.state) = y.state
  WHERE c.year BETWEEN 2016 AND 2022
),` + resilienceClassifySQL

const resilientCropsBaseSQL = `
WITH yearly_precip AS (
  SELECT
    EXTRACT(YEAR FROM start_date)::int AS year,
    UPPER(state) AS state,
    AVG(precipitation) AS avg_precip
  FROM weather_events
  WHERE start_date BETWEEN '2016-01-01' AND '2022-12-31'
  GROUP BY EXTRACT(YEAR FROM start_date), UPPER(state)
),
crop_env AS (
  SELECT
    c.crop,
    c.yield_kg_per_acre,
    (p."CO Mean" + p."NO2 Mean" + p."SO2 Mean" + p."O3 Mean") AS pollution,
    t.average_temp,
    y.avg_precip
  FROM crop_data c
  JOIN pollution_data p ON c.year = p."Year" AND UPPER(c.state) = UPPER(p."State")
  JOIN temperature_data t ON c.year = t.year AND UPPER(c.state) = UPPER(t.state)
  JOIN yearly_precip y ON c.year = y.year AND UPPER(c.state) = y.state
  WHERE c.year BETWEEN 2016 AND 2022
),` + resilienceClassifySQL

const bestCropBySeasonSQL = `
WITH crop_season_yields AS (
  SELECT
    season,
    crop,
    AVG(yield_kg_per_acre) AS avg_yield,
    ROW_NUMBER() OVER (
      PARTITION BY season
      ORDER BY AVG(yield_kg_per_acre) DESC
    ) AS rank
  FROM crop_data
  WHERE season IS NOT NULL
  GROUP BY season, crop
)
SELECT
  season,
  crop AS best_crop,
  ROUND(avg_yield::numeric, 2) AS avg_yield_kg_per_acre
FROM crop_season_yields
WHERE rank = 1
ORDER BY season`

const bestSeasonForCropSQL = `
WITH crop_season_yields AS (
  SELECT
    crop,
    season,
    AVG(yield_kg_per_acre) AS avg_yield,
    ROW_NUMBER() OVER (
      PARTITION BY crop
      ORDER BY AVG(yield_kg_per_acre) DESC
    ) AS rank
  FROM crop_data
  WHERE season IS NOT NULL
  GROUP BY crop, season
)
SELECT
  crop,
  season AS best_season_to_plant,
  ROUND(avg_yield::numeric, 2) AS avg_yield_kg_per_acre
FROM crop_season_yields
WHERE rank = 1
ORDER BY crop`

const bestCropByStateSQL = `
WITH crop_yield_ranked AS (
  SELECT
    UPPER(state) AS state,
    crop,
    AVG(yield_kg_per_acre) AS avg_yield,
    ROW_NUMBER() OVER (
      PARTITION BY UPPER(state)
      ORDER BY AVG(yield_kg_per_acre) DESC
    ) AS rank
  FROM crop_data
  GROUP BY UPPER(state), crop
)
SELECT
  state,
  crop AS best_crop_to_plant,
  ROUND(avg_yield::numeric, 2) AS avg_yield_kg_per_acre
FROM crop_yield_ranked
WHERE rank = 1
ORDER BY state`

// conditionRankSQL ranks crops inside each tertile of axis_value. It expects
// a preceding CTE named axis_values(crop, yield_kg_per_acre, axis_value).
const conditionRankSQL = `
labeled AS (
  SELECT *,
    CASE NTILE(3) OVER (ORDER BY axis_value)
      WHEN 1 THEN 'Low'
      WHEN 2 THEN 'Mid'
      ELSE 'High'
    END AS group_label
  FROM axis_values
),
ranked AS (
  SELECT
    group_label,
    crop,
    AVG(yield_kg_per_acre) AS avg_yield,
    ROW_NUMBER() OVER (PARTITION BY group_label ORDER BY AVG(yield_kg_per_acre) DESC) AS rank
  FROM labeled
  GROUP BY group_label, crop
)
SELECT group_label, crop, ROUND(avg_yield::numeric, 2) AS avg_yield
FROM ranked
WHERE rank = 1
ORDER BY CASE group_label WHEN 'Low' THEN 1 WHEN 'Mid' THEN 2 ELSE 3 END`

const bestCropByPollutionSQL = `
WITH axis_values AS (
  SELECT
    c.crop,
    c.yield_kg_per_acre,
    (p."CO Mean" + p."NO2 Mean" + p."SO2 Mean" + p."O3 Mean") AS axis_value
  FROM crop_data c
  JOIN pollution_data p ON c.year = p."Year" AND UPPER(c.state) = UPPER(p."State")
  WHERE c.year BETWEEN 2016 AND 2021
),` + conditionRankSQL

const bestCropByTemperatureSQL = `
WITH axis_values AS (
  SELECT
    c.crop,
    c.yield_kg_per_acre,
    t.average_temp AS axis_value
  FROM crop_data c
  JOIN temperature_data t ON c.year = t.year AND UPPER(c.state) = UPPER(t.state)
  WHERE c.year BETWEEN 2016 AND 2021
),` + conditionRankSQL

const bestCropByPrecipitationViewsSQL = `
WITH axis_values AS (
  SELECT
    c.crop,
    c.yield_kg_per_acre,
    y.avg_precip AS axis_value
  FROM crop_data c
  JOIN precip_avg_by_year_state_mv y ON c.year = y.year AND UPPER(c.state) = y.state
  WHERE c.year BETWEEN 2016 AND 2021
),` + conditionRankSQL

const bestCropByPrecipitationBaseSQL = `
WITH yearly_precip AS (
  SELECT
    EXTRACT(YEAR FROM start_date)::int AS year,
    UPPER(state) AS state,
    AVG(precipitation) AS avg_precip
  FROM weather_events
  WHERE start_date BETWEEN '2016-01-01' AND '2022-12-31'
  GROUP BY EXTRACT(YEAR FROM start_date), UPPER(state)
),
axis_values AS (
  SELECT
    c.crop,
    c.yield_kg_per_acre,
    y.avg_precip AS axis_value
  FROM crop_data c
  JOIN yearly_precip y ON c.year = y.year AND UPPER(c.state) = y.state
  WHERE c.year BETWEEN 2016 AND 2021
),` + conditionRankSQL
