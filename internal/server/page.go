package server

import (
	"html/template"

	"g2b-bids/internal/g2b"
)

type pageForm struct {
	Start, End                   string
	Basis                        int
	Title, Industry, Region      string
	MinPrice, MaxPrice, Contract string
	Page, Rows                   int
}

type pageData struct {
	Form      pageForm
	Regions   []g2b.Region
	Pages     []int
	RowSizes  []int
	Ran       bool
	Result    searchResponse
	ExportURL string
	Error     string
}

func newPageData(c g2b.Criteria) pageData {
	d := pageData{
		Form: pageForm{
			Start:    formatDate(c.StartDate),
			End:      formatDate(c.EndDate),
			Basis:    int(c.Basis),
			Title:    c.Title,
			Industry: c.Industry,
			Region:   c.Region,
			MinPrice: c.MinPrice,
			MaxPrice: c.MaxPrice,
			Contract: string(c.Contract),
			Page:     c.PageNo,
			Rows:     c.NumOfRows,
		},
		Regions: g2b.RegionCodes,
	}
	for p := g2b.MinPageNo; p <= g2b.MaxPageNo; p++ {
		d.Pages = append(d.Pages, p)
	}
	for r := g2b.MinNumOfRows; r <= g2b.MaxNumOfRows; r += g2b.NumOfRowsStep {
		d.RowSizes = append(d.RowSizes, r)
	}
	return d
}

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>나라장터 공사공고 검색</title>
<style>
body { font-family: sans-serif; font-size: 14px; margin: 1rem 2rem; }
form { display: grid; grid-template-columns: max-content 1fr; gap: .4rem 1rem; max-width: 44rem; }
table { border-collapse: collapse; margin-top: 1rem; }
th, td { border: 1px solid #ccc; padding: .25rem .5rem; }
th { font-weight: 700; background: #f4f4f4; }
pre { background: #f8f8f8; padding: .5rem; }
.help { font-size: 12px; color: #555; }
</style>
</head>
<body>
<h1>나라장터 공사공고 검색</h1>
<form method="get" action="/">
  <input type="hidden" name="run" value="1">
  <label>조회 기준</label>
  <span>
    <label><input type="radio" name="basis" value="1" {{if ne .Form.Basis 2}}checked{{end}}> 공고게시일 기준</label>
    <label><input type="radio" name="basis" value="2" {{if eq .Form.Basis 2}}checked{{end}}> 개찰일 기준</label>
  </span>
  <label for="start">조회 시작일</label><input id="start" type="date" name="start" value="{{.Form.Start}}">
  <label for="end">조회 종료일</label><input id="end" type="date" name="end" value="{{.Form.End}}">
  <label for="title">공고명 검색어</label><input id="title" name="title" value="{{.Form.Title}}" placeholder="예: 실내건축, 증축, 보수공사 등">
  <label for="industry">업종명 검색어</label><input id="industry" name="industry" value="{{.Form.Industry}}" placeholder="예: 실내건축공사업">
  <label for="region">참가제한 지역코드</label><input id="region" name="region" value="{{.Form.Region}}" placeholder="예: 41 (경기도)">
  <span></span>
  <span class="help">{{range .Regions}}{{.Code}}: {{.Name}} &nbsp;{{end}}<br>필터를 사용하지 않으려면 빈칸으로 두세요.</span>
  <label for="min_price">최소 기초금액</label><input id="min_price" name="min_price" value="{{.Form.MinPrice}}" placeholder="예: 100,000,000">
  <label for="max_price">최대 기초금액</label><input id="max_price" name="max_price" value="{{.Form.MaxPrice}}" placeholder="예: 300,000,000">
  <label>계약방법 필터</label>
  <span>
    <label><input type="radio" name="contract" value="all" {{if eq .Form.Contract "all"}}checked{{end}}> 전체</label>
    <label><input type="radio" name="contract" value="only_negotiated" {{if eq .Form.Contract "only_negotiated"}}checked{{end}}> 수의계약만</label>
    <label><input type="radio" name="contract" value="exclude_negotiated" {{if eq .Form.Contract "exclude_negotiated"}}checked{{end}}> 수의계약 제외</label>
  </span>
  <label for="page">페이지</label>
  <select id="page" name="page">{{$p := .Form.Page}}{{range .Pages}}<option {{if eq . $p}}selected{{end}}>{{.}}</option>{{end}}</select>
  <label for="rows">행 수</label>
  <select id="rows" name="rows">{{$r := .Form.Rows}}{{range .RowSizes}}<option {{if eq . $r}}selected{{end}}>{{.}}</option>{{end}}</select>
  <span></span><button type="submit">공고 검색 실행</button>
</form>
{{if .Error}}<p><strong>{{.Error}}</strong></p>{{end}}
{{if .Ran}}
<h2>처리 로그</h2>
<pre>{{range .Result.Log.Lines}}{{.}}
{{end}}</pre>
{{if .Result.Summary.Count}}
<h2>검색 요약</h2>
<p>조회된 공고 수 {{.Result.Summary.Count}} 건 · {{.Result.Summary.Basis}} · 페이지 / 행 수 {{.Result.Summary.PageNo}} / {{.Result.Summary.NumOfRows}}</p>
<p><a href="{{.ExportURL}}">엑셀 파일 다운로드</a></p>
<table>
<thead><tr>{{range .Result.Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>{{range .Result.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody>
</table>
{{else}}
<p>조건에 해당하는 공고가 없습니다.</p>
{{end}}
{{else}}
<p>조건을 설정한 후 '공고 검색 실행' 버튼을 눌러주세요.</p>
{{end}}
</body>
</html>
`))
