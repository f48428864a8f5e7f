package server

import "g2b-bids/internal/g2b"

type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

type CallRequest struct {
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"arguments"`
}

// searchArgs are the g2b_bid_search tool arguments. Absent dates fall back
// to the form defaults; present but blank dates are left out of the query.
type searchArgs struct {
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Basis     string  `json:"basis"`
	Title     string  `json:"title"`
	Industry  string  `json:"industry"`
	Region    string  `json:"region"`
	MinPrice  string  `json:"minPrice"`
	MaxPrice  string  `json:"maxPrice"`
	Contract  string  `json:"contract"`
	PageNo    int     `json:"pageNo"`
	NumOfRows int     `json:"numOfRows"`
}

type summary struct {
	Count     int    `json:"count"`
	Basis     string `json:"basis"`
	PageNo    int    `json:"pageNo"`
	NumOfRows int    `json:"numOfRows"`
}

type searchResponse struct {
	Outcome g2b.Outcome      `json:"outcome"`
	Log     g2b.OperationLog `json:"log"`
	Columns []string         `json:"columns"`
	Rows    [][]string       `json:"rows"`
	Summary summary          `json:"summary"`
}

func newSearchResponse(res g2b.Result, crit g2b.Criteria) searchResponse {
	resp := searchResponse{
		Outcome: res.Outcome,
		Log:     res.Log,
		Columns: res.Table.Columns,
		Rows:    res.Table.Rows,
		Summary: summary{
			Count:     res.Table.Len(),
			Basis:     crit.Basis.Label(),
			PageNo:    crit.PageNo,
			NumOfRows: crit.NumOfRows,
		},
	}
	if resp.Columns == nil {
		resp.Columns = []string{}
	}
	if resp.Rows == nil {
		resp.Rows = [][]string{}
	}
	return resp
}
