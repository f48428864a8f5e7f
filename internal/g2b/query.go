package g2b

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// ErrMissingServiceKey is returned when no service key is configured. No
// request may be attempted without one.
var ErrMissingServiceKey = errors.New("g2b: service key is required")

const (
	queryStartSuffix = "0000"
	queryEndSuffix   = "2359"
	responseType     = "json"
)

// BuildQuery composes the query parameters for one search. Criteria left
// blank are omitted entirely, since the API treats a present parameter as
// an active filter.
func BuildQuery(serviceKey string, c Criteria) (url.Values, error) {
	if strings.TrimSpace(serviceKey) == "" {
		return nil, ErrMissingServiceKey
	}

	pageNo := c.PageNo
	if pageNo < MinPageNo {
		pageNo = MinPageNo
	}
	numOfRows := c.NumOfRows
	if numOfRows <= 0 {
		numOfRows = DefaultNumOfRows
	}
	basis := c.Basis
	if basis != BasisOpening {
		basis = BasisAnnouncement
	}

	q := url.Values{}
	q.Set("serviceKey", serviceKey)
	q.Set("pageNo", strconv.Itoa(pageNo))
	q.Set("numOfRows", strconv.Itoa(numOfRows))
	q.Set("inqryDiv", strconv.Itoa(int(basis)))
	q.Set("type", responseType)

	if !c.StartDate.IsZero() {
		q.Set("inqryBgnDt", c.StartDate.Format("20060102")+queryStartSuffix)
	}
	if !c.EndDate.IsZero() {
		q.Set("inqryEndDt", c.EndDate.Format("20060102")+queryEndSuffix)
	}
	if v := strings.TrimSpace(c.Title); v != "" {
		q.Set("bidNtceNm", v)
	}
	if v := strings.TrimSpace(c.Industry); v != "" {
		q.Set("indstrytyNm", v)
	}
	if v := normalizeRegion(c.Region); v != "" {
		q.Set("prtcptLmtRgnCd", v)
	}
	return q, nil
}

// normalizeRegion trims the code and left-pads a single character to two.
func normalizeRegion(code string) string {
	code = strings.TrimSpace(code)
	if len([]rune(code)) == 1 {
		return "0" + code
	}
	return code
}
