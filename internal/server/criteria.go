package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"g2b-bids/internal/g2b"
)

// Query parameter names shared by the form page and /api/search.
const (
	paramStart    = "start"
	paramEnd      = "end"
	paramBasis    = "basis"
	paramTitle    = "title"
	paramIndustry = "industry"
	paramRegion   = "region"
	paramMinPrice = "min_price"
	paramMaxPrice = "max_price"
	paramContract = "contract"
	paramPage     = "page"
	paramRows     = "rows"
)

// criteriaFromQuery reads search criteria from a query string. A missing
// date takes the form default; a present but blank one is omitted.
func criteriaFromQuery(q url.Values, now time.Time) (g2b.Criteria, error) {
	c := g2b.DefaultCriteria(now)

	if err := dateParam(q, paramStart, &c.StartDate); err != nil {
		return c, err
	}
	if err := dateParam(q, paramEnd, &c.EndDate); err != nil {
		return c, err
	}

	var err error
	if c.Basis, err = g2b.ParseBasis(q.Get(paramBasis)); err != nil {
		return c, err
	}
	if c.Contract, err = g2b.ParseContractFilter(q.Get(paramContract)); err != nil {
		return c, err
	}
	if c.PageNo, err = intParam(q, paramPage, c.PageNo); err != nil {
		return c, err
	}
	if c.NumOfRows, err = intParam(q, paramRows, c.NumOfRows); err != nil {
		return c, err
	}

	c.Title = q.Get(paramTitle)
	c.Industry = q.Get(paramIndustry)
	c.Region = q.Get(paramRegion)
	c.MinPrice = q.Get(paramMinPrice)
	c.MaxPrice = q.Get(paramMaxPrice)
	return c.Clamp(), nil
}

// criteriaFromArgs applies tool arguments on top of the form defaults.
func criteriaFromArgs(a searchArgs, now time.Time) (g2b.Criteria, error) {
	c := g2b.DefaultCriteria(now)

	var err error
	if a.StartDate != nil {
		if c.StartDate, err = g2b.ParseDate(*a.StartDate); err != nil {
			return c, err
		}
	}
	if a.EndDate != nil {
		if c.EndDate, err = g2b.ParseDate(*a.EndDate); err != nil {
			return c, err
		}
	}
	if c.Basis, err = g2b.ParseBasis(a.Basis); err != nil {
		return c, err
	}
	if c.Contract, err = g2b.ParseContractFilter(a.Contract); err != nil {
		return c, err
	}
	if a.PageNo != 0 {
		c.PageNo = a.PageNo
	}
	if a.NumOfRows != 0 {
		c.NumOfRows = a.NumOfRows
	}
	c.Title = a.Title
	c.Industry = a.Industry
	c.Region = a.Region
	c.MinPrice = a.MinPrice
	c.MaxPrice = a.MaxPrice
	return c.Clamp(), nil
}

// toQuery is the inverse of criteriaFromQuery, used for export links.
func toQuery(c g2b.Criteria) url.Values {
	q := url.Values{}
	q.Set(paramStart, formatDate(c.StartDate))
	q.Set(paramEnd, formatDate(c.EndDate))
	q.Set(paramBasis, strconv.Itoa(int(c.Basis)))
	q.Set(paramTitle, c.Title)
	q.Set(paramIndustry, c.Industry)
	q.Set(paramRegion, c.Region)
	q.Set(paramMinPrice, c.MinPrice)
	q.Set(paramMaxPrice, c.MaxPrice)
	q.Set(paramContract, string(c.Contract))
	q.Set(paramPage, strconv.Itoa(c.PageNo))
	q.Set(paramRows, strconv.Itoa(c.NumOfRows))
	return q
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func dateParam(q url.Values, name string, dst *time.Time) error {
	if _, ok := q[name]; !ok {
		return nil
	}
	t, err := g2b.ParseDate(q.Get(name))
	if err != nil {
		return err
	}
	*dst = t
	return nil
}

func intParam(q url.Values, name string, def int) (int, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, v)
	}
	return n, nil
}
