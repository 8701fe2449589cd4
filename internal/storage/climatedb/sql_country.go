package climatedb

// Country-level indicator questions served under /api

const climateSummarySQL = `
SELECT c.name AS country_name,
  AVG(st.daily_avg_temp) AS avg_daily_temp,
  AVG(ce.co2_production) AS avg_co2_emissions,
  AVG(sl.global_mean_sea_level) AS avg_sea_level
FROM country c
JOIN surface_temp st ON c.country_id = st.country_id
JOIN co2_emissions ce ON c.country_id = ce.country_id
JOIN sea_level sl ON c.country_id = sl.country_id
WHERE st.year = ? AND ce.year = ? AND EXTRACT(YEAR FROM sl.date) = ?
GROUP BY c.name
ORDER BY c.name`

const cropWildfiresSQL = `
SELECT c.name AS country_name,
  SUM(wf.area_ha) AS total_wildfire_area,
  SUM(ce.co2_production) AS total_co2_production,
  cy.crop AS crop_type,
  AVG(cy.crop_yield) AS avg_crop_yield
FROM country c
JOIN wildfires wf ON c.country_id = wf.country_id
JOIN co2_emissions ce ON c.country_id = ce.country_id
JOIN crop_yield cy ON c.country_id = cy.country_id
WHERE wf.continent = ? AND cy.year = ? AND ce.year = ?
GROUP BY c.name, cy.crop
ORDER BY c.name, cy.crop`

const continentCropYieldSQL = `
WITH continent_yield AS (
  SELECT c.name AS country_name, w.continent, cy.crop, cy.crop_yield, cy.irrigation_access
  FROM crop_yield cy
  JOIN country c ON cy.country_id = c.country_id
  JOIN wildfires w ON c.country_id = w.country_id
)
SELECT continent, crop,
  AVG(crop_yield) AS avg_yield,
  AVG(irrigation_access) AS avg_irrigation_access
FROM continent_yield
GROUP BY continent, crop
ORDER BY avg_yield DESC, continent, crop`

const urbanCO2SQL = `
WITH metro_stats AS (
  SELECT mm.country_id, c.name AS country_name, mm.year, mm.urban_pop, mm.rural_pop,
    (mm.urban_pop * 1.0) / NULLIF(mm.rural_pop, 0) AS urban_rural_ratio
  FROM metropolis_momentum mm
  JOIN country c ON mm.country_id = c.country_id
),
co2_stats AS (
  SELECT country_id, year, co2_per_capita FROM co2_emissions
)
SELECT m.country_name, m.year, m.urban_rural_ratio, cs.co2_per_capita
FROM metro_stats m
JOIN co2_stats cs ON m.country_id = cs.country_id AND m.year = cs.year
WHERE m.urban_rural_ratio IS NOT NULL
ORDER BY m.year, m.urban_rural_ratio DESC`

const urbanWildfiresCO2SQL = `
SELECT c.name AS country_name, mm.year, mm.urban_pop, mm.rural_pop,
  AVG(ce.co2_production) AS avg_co2_emissions,
  SUM(wf.area_ha) AS total_wildfire_area
FROM country c
JOIN metropolis_momentum mm ON c.country_id = mm.country_id
JOIN co2_emissions ce ON c.country_id = ce.country_id
JOIN wildfires wf ON c.country_id = wf.country_id
WHERE mm.year = 2020
GROUP BY c.name, mm.year, mm.urban_pop, mm.rural_pop
ORDER BY c.name`

const topCO2CountriesSQL = `
SELECT c.name, ce.co2_per_capita
FROM co2_emissions ce
JOIN country c ON ce.country_id = c.country_id
WHERE ce.year = ?
ORDER BY ce.co2_per_capita DESC, c.name
LIMIT ?`

const urbanMajoritySQL = `
WITH latest_year AS (
  SELECT MAX(year) AS max_year FROM metropolis_momentum
)
SELECT
  c.name AS country_name,
  mm.urban_pop,
  mm.rural_pop
FROM metropolis_momentum mm
JOIN country c ON mm.country_id = c.country_id
JOIN latest_year ly ON mm.year = ly.max_year
WHERE mm.urban_pop > mm.rural_pop
ORDER BY mm.urban_pop DESC`

const wildfireHotspotsSQL = `
SELECT c.name AS country_name, COUNT(w.wildfire_id) AS wildfire_events
FROM wildfires w
JOIN country c ON w.country_id = c.country_id
GROUP BY c.name
HAVING COUNT(w.wildfire_id) > 10
ORDER BY wildfire_events DESC, c.name`

const wildfireVsCropYieldSQL = `
SELECT c.name AS country_name,
  SUM(wf.area_ha) AS total_wildfire_area,
  AVG(cy.crop_yield) AS avg_crop_yield
FROM country c
JOIN wildfires wf ON c.country_id = wf.country_id
JOIN crop_yield cy ON c.country_id = cy.country_id
WHERE cy.extreme_weather IS NOT NULL
GROUP BY c.name
ORDER BY total_wildfire_area DESC, c.name`

const seaLevelVsCO2SQL = `
SELECT c.name AS country_name, ce.year, ce.co2_production AS co2_emissions,
  AVG(sl.global_mean_sea_level) AS avg_sea_level
FROM country c
JOIN co2_emissions ce ON c.country_id = ce.country_id
JOIN sea_level sl ON c.country_id = sl.country_id
GROUP BY c.name, ce.year, ce.co2_production
ORDER BY c.name, ce.year`
