package restserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/chrissnell/cropclimate/internal/storage/climatedb"
)

const (
	defaultYear  = 2019
	defaultLimit = 10
	maxLimit     = 1000
)

// paramError is a client input problem, reported as 400
type paramError struct {
	msg string
}

func (e *paramError) Error() string { return e.msg }

func missingParam(name string) error {
	return &paramError{msg: fmt.Sprintf("%s is required", name)}
}

func invalidParam(name, reason string) error {
	return &paramError{msg: fmt.Sprintf("%s %s", name, reason)}
}

// queryString returns a trimmed, required query parameter
func queryString(req *http.Request, name string) (string, error) {
	v := strings.TrimSpace(req.URL.Query().Get(name))
	if v == "" {
		return "", missingParam(name)
	}
	return v, nil
}

// positiveInt parses a query parameter as a positive integer. A missing
// parameter yields def, or an error when def is 0.
func positiveInt(req *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(req.URL.Query().Get(name))
	if raw == "" {
		if def == 0 {
			return 0, missingParam(name)
		}
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, invalidParam(name, "must be a positive integer")
	}
	return n, nil
}

func requiredYear(req *http.Request) (int, error) {
	return positiveInt(req, "year", 0)
}

func limitParam(req *http.Request) (int, error) {
	n, err := positiveInt(req, "limit", defaultLimit)
	if err != nil {
		return 0, err
	}
	return min(n, maxLimit), nil
}

// stateParam returns the canonical upper-case state from the path
func stateParam(req *http.Request) (string, error) {
	state := climatedb.NormalizeState(mux.Vars(req)["state"])
	if state == "" {
		return "", missingParam("state")
	}
	return state, nil
}

func axisParam(req *http.Request) (climatedb.Axis, error) {
	axis, err := climatedb.ParseAxis(strings.ToLower(mux.Vars(req)["axis"]))
	if err != nil {
		return "", &paramError{msg: err.Error()}
	}
	return axis, nil
}
