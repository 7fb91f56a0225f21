package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"stayledger/internal/errors"
	"stayledger/internal/finance"
	"stayledger/internal/models"
)

// periodQuery is shared by the JSON and SSE period endpoints.
type periodQuery struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Status string `json:"status"`
}

func (q periodQuery) parse() (finance.DateRange, *models.BookingStatus, error) {
	if q.Start == "" || q.End == "" {
		return finance.DateRange{}, nil, errors.BadRequest("start and end are required (YYYY-MM-DD)")
	}
	start, err := time.Parse(time.DateOnly, q.Start)
	if err != nil {
		return finance.DateRange{}, nil, errors.BadRequestWrap(err, "start must be a YYYY-MM-DD date")
	}
	end, err := time.Parse(time.DateOnly, q.End)
	if err != nil {
		return finance.DateRange{}, nil, errors.BadRequestWrap(err, "end must be a YYYY-MM-DD date")
	}

	rng, err := finance.NewDateRange(start, end)
	if err != nil {
		return finance.DateRange{}, nil, err
	}

	var status *models.BookingStatus
	if s := strings.TrimSpace(q.Status); s != "" {
		st := models.BookingStatus(strings.ToUpper(s))
		status = &st
	}
	return rng, status, nil
}

// taxQuery is shared by the JSON and SSE tourist-tax endpoints.
type taxQuery struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Property string `json:"property"`
}

func parseTaxQuery(year, month, property string) (taxQuery, error) {
	if year == "" || month == "" {
		return taxQuery{}, errors.BadRequest("year and month are required")
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return taxQuery{}, errors.BadRequestWrap(fmt.Errorf("year %q: %w", year, err), "year must be a number")
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return taxQuery{}, errors.BadRequestWrap(fmt.Errorf("month %q: %w", month, err), "month must be a number")
	}
	return taxQuery{Year: y, Month: m, Property: strings.TrimSpace(property)}, nil
}
