package g2b

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okBody(t *testing.T, items any) []byte {
	t.Helper()
	body := map[string]any{"totalCount": 0}
	if items != nil {
		body["items"] = items
	}
	b, err := json.Marshal(map[string]any{
		"response": map[string]any{
			"header": map[string]any{"resultCode": "00", "resultMsg": "정상"},
			"body":   body,
		},
	})
	require.NoError(t, err)
	return b
}

func bid(no, price, method string) map[string]any {
	m := map[string]any{"bidNtceNo": no, "bidNtceNm": "공고 " + no}
	if price != "" {
		m[FieldPrice] = price
	}
	if method != "" {
		m[FieldContract] = method
	}
	return m
}

func column(t *testing.T, tbl Table, label string) []string {
	t.Helper()
	idx := -1
	for i, c := range tbl.Columns {
		if c == label {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0, "column %q missing from %v", label, tbl.Columns)
	out := make([]string, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		out = append(out, row[idx])
	}
	return out
}

func TestProcessScenarioA(t *testing.T) {
	body := okBody(t, map[string]any{"item": []any{
		bid("1", "100,000,000", "일반경쟁"),
		bid("2", "500,000,000", "수의계약"),
	}})
	res := Process(http.StatusOK, body, Criteria{Contract: ContractAll})

	assert.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, 2, res.Table.Len())
	log := res.Log.String()
	assert.Contains(t, log, "API 응답 코드: 00, 메시지: 정상")
	assert.Contains(t, log, "공고 건수(모든 필터 적용 후): 2건")
	assert.Equal(t, []string{"100,000,000", "500,000,000"}, column(t, res.Table, "기초금액"))
}

func TestProcessScenarioB(t *testing.T) {
	res := Process(http.StatusOK, okBody(t, nil), Criteria{})
	assert.Equal(t, OutcomeEmpty, res.Outcome)
	assert.Zero(t, res.Table.Len())
	assert.Contains(t, res.Log.String(), "검색 조건에 해당하는 데이터 없음")
}

func TestProcessScenarioC(t *testing.T) {
	res := Process(http.StatusInternalServerError, []byte("not json at all"), Criteria{})
	assert.Equal(t, OutcomeTransport, res.Outcome)
	assert.Zero(t, res.Table.Len())
	assert.Equal(t, []string{"HTTP 오류: 500"}, res.Log.Lines())
}

func TestProcessParseError(t *testing.T) {
	raw := "<OpenAPI_ServiceResponse>" + strings.Repeat("x", 300)
	res := Process(http.StatusOK, []byte(raw), Criteria{})
	assert.Equal(t, OutcomeParse, res.Outcome)
	lines := res.Log.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "JSON 파싱 실패", lines[0])
	assert.Equal(t, raw[:200], lines[1])

	res = Process(http.StatusOK, []byte(`{"response":{}} trailing`), Criteria{})
	assert.Equal(t, OutcomeParse, res.Outcome)
	res = Process(http.StatusOK, []byte(`null`), Criteria{})
	assert.Equal(t, OutcomeParse, res.Outcome)
}

func TestProcessUpstreamCode(t *testing.T) {
	body := []byte(`{"response":{"header":{"resultCode":"07","resultMsg":"입력범위값 초과 에러"},"body":{}}}`)
	res := Process(http.StatusOK, body, Criteria{})
	assert.Equal(t, OutcomeUpstream, res.Outcome)
	assert.Zero(t, res.Table.Len())
	log := res.Log.String()
	assert.Contains(t, log, "API 응답 코드: 07, 메시지: 입력범위값 초과 에러")
	assert.Contains(t, log, "조건 불충족 또는 파라미터 오류")
}

func TestProcessNumericResultCode(t *testing.T) {
	body := []byte(`{"response":{"header":{"resultCode":0,"resultMsg":"?"}}}`)
	res := Process(http.StatusOK, body, Criteria{})
	assert.Equal(t, OutcomeUpstream, res.Outcome)
	assert.Contains(t, res.Log.String(), "API 응답 코드: 0,")
}

func TestProcessPriceRange(t *testing.T) {
	body := okBody(t, []any{
		bid("a", "", "일반경쟁"),
		bid("b", "50,000,000", "일반경쟁"),
		bid("c", "100,000,000", "일반경쟁"),
		bid("d", "300,000,000", "일반경쟁"),
	})
	res := Process(http.StatusOK, body, Criteria{MinPrice: "100,000,000", MaxPrice: "300000000"})

	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, []string{"c", "d"}, column(t, res.Table, "공고번호"))
	log := res.Log.String()
	assert.Contains(t, log, "최소 기초금액 이상 필터: 100,000,000원")
	assert.Contains(t, log, "최대 기초금액 이하 필터: 300,000,000원")
}

func TestProcessUnparsableBoundIsNoBound(t *testing.T) {
	body := okBody(t, []any{bid("a", "", ""), bid("b", "abc", "")})
	res := Process(http.StatusOK, body, Criteria{MinPrice: "없음", MaxPrice: "  "})
	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, 2, res.Table.Len())
	assert.NotContains(t, res.Log.String(), "기초금액 이상 필터")
	assert.Equal(t, []string{"0", "0"}, column(t, res.Table, "기초금액"))
}

func TestProcessContractFilter(t *testing.T) {
	items := []any{
		bid("1", "1", "일반경쟁"),
		bid("2", "1", "수의계약"),
		bid("3", "1", "수의계약(소액)"),
		bid("4", "1", ""),
	}
	cases := []struct {
		filter ContractFilter
		want   []string
		label  string
	}{
		{ContractOnlyNegotiated, []string{"2", "3"}, "수의계약만"},
		{ContractExcludeNegotiated, []string{"1", "4"}, "수의계약 제외"},
		{ContractAll, []string{"1", "2", "3", "4"}, "전체"},
	}
	for _, tc := range cases {
		t.Run(string(tc.filter), func(t *testing.T) {
			res := Process(http.StatusOK, okBody(t, items), Criteria{Contract: tc.filter})
			require.Equal(t, OutcomeOK, res.Outcome)
			assert.Equal(t, tc.want, column(t, res.Table, "공고번호"))
			assert.Contains(t, res.Log.String(), "계약방법 필터: "+tc.label)
		})
	}
}

func TestProcessContractColumnAbsent(t *testing.T) {
	body := okBody(t, []any{bid("1", "1", ""), bid("2", "1", "")})
	res := Process(http.StatusOK, body, Criteria{Contract: ContractOnlyNegotiated})
	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, 2, res.Table.Len())
	assert.Contains(t, res.Log.String(), "cntrctCnclsMthdNm 컬럼 없음 (계약방법 필터 미적용)")
	assert.NotContains(t, res.Table.Columns, "계약방법")
}

func TestProcessEmptyAfterFilters(t *testing.T) {
	body := okBody(t, []any{bid("1", "10", "일반경쟁")})
	res := Process(http.StatusOK, body, Criteria{MinPrice: "1,000"})
	assert.Equal(t, OutcomeEmpty, res.Outcome)
	assert.Zero(t, res.Table.Len())
	assert.Contains(t, res.Log.String(), "필터 적용 후 남은 공고 없음")
}

func TestProcessProjection(t *testing.T) {
	body := okBody(t, map[string]any{"item": map[string]any{
		"bidNtceNo":   "R25BK00000001",
		"bidNtceOrd":  json.Number("0"),
		"ntceInsttNm": "조달청",
		"opengDt":     "2025-03-10 11:00:00",
		FieldPrice:    "123456789",
		"unrelated":   "dropped",
		"nested":      map[string]any{"x": "y"},
	}})
	res := Process(http.StatusOK, body, Criteria{})
	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, []string{"공고번호", "공고차수", "공고기관", "개찰일시", "기초금액"}, res.Table.Columns)
	assert.Equal(t, [][]string{{"R25BK00000001", "0", "조달청", "2025-03-10 11:00:00", "123,456,789"}}, res.Table.Rows)

	recs := res.Table.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "조달청", recs[0]["공고기관"])
}

func TestProcessMissingFieldRendersBlank(t *testing.T) {
	body := okBody(t, []any{
		map[string]any{"bidNtceNo": "1", "ntceInsttNm": "A기관"},
		map[string]any{"bidNtceNo": "2"},
	})
	res := Process(http.StatusOK, body, Criteria{})
	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, []string{"A기관", ""}, column(t, res.Table, "공고기관"))
}

func TestProcessBadHeaderIsAbsorbed(t *testing.T) {
	res := Process(http.StatusOK, []byte(`{"response":{"header":"broken"}}`), Criteria{})
	assert.Equal(t, OutcomeUnexpected, res.Outcome)
	assert.Contains(t, res.Log.String(), "예외 발생")
}

func TestFlattenNested(t *testing.T) {
	got := flatten(map[string]any{"a": map[string]any{"b": map[string]any{"c": 1}}, "d": 2, "e": map[string]any{}})
	assert.Equal(t, map[string]any{"a.b.c": 1, "d": 2, "e": map[string]any{}}, got)
}

func TestSearchScenarioDNoRequest(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	res := Search(context.Background(), NewClient("  ", WithBaseURL(srv.URL)), Criteria{})
	assert.Equal(t, OutcomeConfig, res.Outcome)
	assert.Zero(t, res.Table.Len())
	assert.Contains(t, res.Log.String(), "SERVICE_KEY가 설정되지 않았습니다.")
	assert.Zero(t, atomic.LoadInt32(&hits))

	res = Search(context.Background(), nil, Criteria{})
	assert.Equal(t, OutcomeConfig, res.Outcome)
}

func TestSearchEndToEnd(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(okBody(t, map[string]any{"item": []any{
			bid("1", "100,000,000", "일반경쟁"),
			bid("2", "500,000,000", "수의계약"),
		}}))
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	res := Search(context.Background(), c, Criteria{Region: "1", Contract: ContractExcludeNegotiated})

	require.NotNil(t, got)
	assert.Equal(t, "secret", got.URL.Query().Get("serviceKey"))
	assert.Equal(t, "01", got.URL.Query().Get("prtcptLmtRgnCd"))
	assert.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, []string{"1"}, column(t, res.Table, "공고번호"))
	lines := res.Log.Lines()
	require.NotEmpty(t, lines)
	assert.Equal(t, "나라장터 API 요청 완료", lines[0])
}

func TestSearchTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := Search(context.Background(), NewClient("k", WithBaseURL(url)), Criteria{})
	assert.Equal(t, OutcomeTransport, res.Outcome)
	assert.Contains(t, res.Log.String(), "나라장터 API 요청 실패")
}

func TestSearchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	res := Search(context.Background(), NewClient("k", WithBaseURL(srv.URL)), Criteria{})
	assert.Equal(t, OutcomeTransport, res.Outcome)
	assert.Equal(t, []string{"나라장터 API 요청 완료", "HTTP 오류: 500"}, res.Log.Lines())
}

func TestOperationLogJSON(t *testing.T) {
	var l OperationLog
	b, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))

	l.Addf("a %d", 1)
	b, err = json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `["a 1"]`, string(b))
}
