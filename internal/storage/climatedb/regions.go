package climatedb

import (
	"encoding/json"
	"strings"
)

// Regions used by the region ranking, in display order
var Regions = []string{"Northeast", "Southeast", "Midwest", "Southwest", "West", "Northwest", "Pacific"}

// stateRegions maps the canonical (upper-case) state name to its region.
// States missing here never appear in region aggregates.
var stateRegions = map[string]string{
	"MAINE":         "Northeast",
	"NEW HAMPSHIRE": "Northeast",
	"VERMONT":       "Northeast",
	"MASSACHUSETTS": "Northeast",
	"RHODE ISLAND":  "Northeast",
	"CONNECTICUT":   "Northeast",
	"NEW YORK":      "Northeast",
	"PENNSYLVANIA":  "Northeast",
	"NEW JERSEY":    "Northeast",

	"DELAWARE":             "Southeast",
	"MARYLAND":             "Southeast",
	"DISTRICT OF COLUMBIA": "Southeast",
	"VIRGINIA":             "Southeast",
	"WEST VIRGINIA":        "Southeast",
	"NORTH CAROLINA":       "Southeast",
	"SOUTH CAROLINA":       "Southeast",
	"GEORGIA":              "Southeast",
	"FLORIDA":              "Southeast",
	"KENTUCKY":             "Southeast",
	"TENNESSEE":            "Southeast",
	"MISSISSIPPI":          "Southeast",
	"ALABAMA":              "Southeast",
	"ARKANSAS":             "Southeast",
	"LOUISIANA":            "Southeast",

	"OHIO":         "Midwest",
	"MICHIGAN":     "Midwest",
	"INDIANA":      "Midwest",
	"ILLINOIS":     "Midwest",
	"WISCONSIN":    "Midwest",
	"MINNESOTA":    "Midwest",
	"IOWA":         "Midwest",
	"MISSOURI":     "Midwest",
	"NORTH DAKOTA": "Midwest",
	"SOUTH DAKOTA": "Midwest",
	"NEBRASKA":     "Midwest",
	"KANSAS":       "Midwest",

	"TEXAS":      "Southwest",
	"OKLAHOMA":   "Southwest",
	"NEW MEXICO": "Southwest",
	"ARIZONA":    "Southwest",

	"COLORADO":   "West",
	"UTAH":       "West",
	"NEVADA":     "West",
	"CALIFORNIA": "West",

	"MONTANA":    "Northwest",
	"IDAHO":      "Northwest",
	"OREGON":     "Northwest",
	"WASHINGTON": "Northwest",
	"WYOMING":    "Northwest",

	"ALASKA": "Pacific",
	"HAWAII": "Pacific",
}

// regionTable is stateRegions encoded once as the JSON object bound to the
// region query.
var regionTable = mustEncodeRegions()

func mustEncodeRegions() string {
	b, err := json.Marshal(stateRegions)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// NormalizeState trims and upper-cases a state name into the lookup key the
// data uses.
func NormalizeState(state string) string {
	return strings.ToUpper(strings.TrimSpace(state))
}
