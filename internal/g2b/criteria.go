// Package g2b searches construction-bid announcements published through the
// 나라장터 (KONEPS) open API and shapes the raw response into a display table.
package g2b

import (
	"fmt"
	"strings"
	"time"
)

// Basis selects which date the query range applies to (inqryDiv).
type Basis int

const (
	// BasisAnnouncement filters on the announcement publish date.
	BasisAnnouncement Basis = 1
	// BasisOpening filters on the bid-opening date.
	BasisOpening Basis = 2
)

// Label is the human readable name of the basis.
func (b Basis) Label() string {
	if b == BasisOpening {
		return "개찰일 기준"
	}
	return "공고게시일 기준"
}

// ParseBasis accepts "1"/"announcement" and "2"/"opening". Blank means announcement.
func ParseBasis(s string) (Basis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "1", "announcement":
		return BasisAnnouncement, nil
	case "2", "opening":
		return BasisOpening, nil
	}
	return 0, fmt.Errorf("g2b: unknown query basis %q", s)
}

// ContractFilter restricts results by contract-award method.
type ContractFilter string

const (
	ContractAll               ContractFilter = "all"
	ContractOnlyNegotiated    ContractFilter = "only_negotiated"
	ContractExcludeNegotiated ContractFilter = "exclude_negotiated"
)

// Label is the human readable name of the filter mode.
func (f ContractFilter) Label() string {
	switch f {
	case ContractOnlyNegotiated:
		return "수의계약만"
	case ContractExcludeNegotiated:
		return "수의계약 제외"
	}
	return "전체"
}

// ParseContractFilter maps a wire name to a ContractFilter. Blank means all.
func ParseContractFilter(s string) (ContractFilter, error) {
	switch ContractFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", ContractAll:
		return ContractAll, nil
	case ContractOnlyNegotiated:
		return ContractOnlyNegotiated, nil
	case ContractExcludeNegotiated:
		return ContractExcludeNegotiated, nil
	}
	return "", fmt.Errorf("g2b: unknown contract filter %q", s)
}

const (
	MinPageNo        = 1
	MaxPageNo        = 10
	MinNumOfRows     = 10
	MaxNumOfRows     = 500
	NumOfRowsStep    = 10
	DefaultNumOfRows = 100
)

// Criteria is one search request. Zero dates and blank strings are omitted
// from the outgoing query. MinPrice and MaxPrice hold the raw user input;
// blank or unparsable bounds mean "no bound".
type Criteria struct {
	StartDate time.Time
	EndDate   time.Time
	Basis     Basis
	Title     string
	Industry  string
	Region    string
	MinPrice  string
	MaxPrice  string
	Contract  ContractFilter
	PageNo    int
	NumOfRows int
}

// DefaultCriteria returns the criteria a fresh search form starts with:
// the first day of the current month through today, first page of 100 rows.
func DefaultCriteria(now time.Time) Criteria {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return Criteria{
		StartDate: today.AddDate(0, 0, 1-today.Day()),
		EndDate:   today,
		Basis:     BasisAnnouncement,
		Contract:  ContractAll,
		PageNo:    MinPageNo,
		NumOfRows: DefaultNumOfRows,
	}
}

// Clamp bounds the paging fields to the ranges the search form offers.
func (c Criteria) Clamp() Criteria {
	switch {
	case c.PageNo < MinPageNo:
		c.PageNo = MinPageNo
	case c.PageNo > MaxPageNo:
		c.PageNo = MaxPageNo
	}
	switch {
	case c.NumOfRows <= 0:
		c.NumOfRows = DefaultNumOfRows
	case c.NumOfRows < MinNumOfRows:
		c.NumOfRows = MinNumOfRows
	case c.NumOfRows > MaxNumOfRows:
		c.NumOfRows = MaxNumOfRows
	}
	c.NumOfRows -= c.NumOfRows % NumOfRowsStep
	if c.Basis != BasisOpening {
		c.Basis = BasisAnnouncement
	}
	if c.Contract == "" {
		c.Contract = ContractAll
	}
	return c
}

// ParseDate reads a YYYY-MM-DD (or YYYYMMDD) date. Blank yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02", "20060102"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("g2b: invalid date %q", s)
}
