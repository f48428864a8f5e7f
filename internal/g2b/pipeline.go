package g2b

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// SuccessCode is the resultCode the API sends with usable data. Any other
// code is treated as "no usable data"; the API uses the same non-success
// codes for parameter errors and for some empty results, and the two are
// not told apart here.
const SuccessCode = "00"

const bodyExcerptLen = 200

// Outcome classifies how a search run ended.
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeConfig     Outcome = "config"
	OutcomeTransport  Outcome = "transport"
	OutcomeParse      Outcome = "parse"
	OutcomeUpstream   Outcome = "upstream"
	OutcomeEmpty      Outcome = "empty"
	OutcomeUnexpected Outcome = "unexpected"
)

// OperationLog accumulates the status lines of one search run.
type OperationLog struct {
	lines []string
}

// Addf appends one formatted line.
func (l *OperationLog) Addf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

// Lines returns a copy of the accumulated lines.
func (l OperationLog) Lines() []string {
	return append([]string(nil), l.lines...)
}

func (l OperationLog) String() string {
	return strings.Join(l.lines, "\n")
}

// MarshalJSON encodes the log as an array of lines.
func (l OperationLog) MarshalJSON() ([]byte, error) {
	if l.lines == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.lines)
}

// Result is what one search hands back: the log is always populated, the
// table is empty unless the run got through every stage.
type Result struct {
	Log     OperationLog `json:"log"`
	Table   Table        `json:"table"`
	Outcome Outcome      `json:"outcome"`
}

// Search runs one complete search: it checks the service key, issues a
// single request through c and shapes the response. It never returns an
// error; every failure ends up in the log with an empty table.
func Search(ctx context.Context, c *Client, crit Criteria) (res Result) {
	defer recoverInto(&res)

	key := ""
	if c != nil {
		key = c.ServiceKey
	}
	q, err := BuildQuery(key, crit)
	if err != nil {
		res.Log.Addf("SERVICE_KEY가 설정되지 않았습니다.")
		res.Outcome = OutcomeConfig
		return res
	}

	status, body, err := c.Fetch(ctx, q)
	if err != nil {
		res.Log.Addf("나라장터 API 요청 실패: %v", err)
		res.Outcome = OutcomeTransport
		return res
	}
	res.Log.Addf("나라장터 API 요청 완료")

	res.Table, res.Outcome = process(&res.Log, status, body, crit)
	return res
}

// Process shapes one raw HTTP response (status and body) for crit.
func Process(status int, body []byte, crit Criteria) (res Result) {
	defer recoverInto(&res)
	res.Table, res.Outcome = process(&res.Log, status, body, crit)
	return res
}

func recoverInto(res *Result) {
	if r := recover(); r != nil {
		res.Log.Addf("예외 발생: %v", r)
		res.Table = Table{}
		res.Outcome = OutcomeUnexpected
	}
}

type responseHeader struct {
	ResultCode string `mapstructure:"resultCode"`
	ResultMsg  string `mapstructure:"resultMsg"`
}

func process(log *OperationLog, status int, body []byte, crit Criteria) (Table, Outcome) {
	if status != http.StatusOK {
		log.Addf("HTTP 오류: %d", status)
		return Table{}, OutcomeTransport
	}

	envelope, err := decodeEnvelope(body)
	if err != nil {
		log.Addf("JSON 파싱 실패")
		log.Addf("%s", excerpt(body, bodyExcerptLen))
		return Table{}, OutcomeParse
	}

	header, err := decodeHeader(envelope)
	if err != nil {
		log.Addf("예외 발생: %v", err)
		return Table{}, OutcomeUnexpected
	}
	log.Addf("API 응답 코드: %s, 메시지: %s", header.ResultCode, header.ResultMsg)
	if header.ResultCode != SuccessCode {
		log.Addf("조건 불충족 또는 파라미터 오류")
		return Table{}, OutcomeUpstream
	}

	items := ExtractItems(envelope)
	if len(items) == 0 {
		log.Addf("검색 조건에 해당하는 데이터 없음")
		return Table{}, OutcomeEmpty
	}

	records := make([]record, 0, len(items))
	hasContract := false
	for _, it := range items {
		r := record{fields: flatten(it)}
		r.price = PriceOrZero(r.fields[FieldPrice])
		hasContract = hasContract || r.has(FieldContract)
		records = append(records, r)
	}

	if lower, ok := ParseMoney(crit.MinPrice); ok {
		records = keep(records, func(r record) bool { return r.price >= lower })
		log.Addf("최소 기초금액 이상 필터: %s원", FormatWon(lower))
	}
	if upper, ok := ParseMoney(crit.MaxPrice); ok {
		records = keep(records, func(r record) bool { return r.price <= upper })
		log.Addf("최대 기초금액 이하 필터: %s원", FormatWon(upper))
	}

	if !hasContract {
		log.Addf("%s 컬럼 없음 (계약방법 필터 미적용)", FieldContract)
	} else {
		switch crit.Contract {
		case ContractOnlyNegotiated:
			records = keep(records, isNegotiated)
		case ContractExcludeNegotiated:
			records = keep(records, func(r record) bool { return !isNegotiated(r) })
		}
		log.Addf("계약방법 필터: %s", crit.Contract.Label())
	}

	if len(records) == 0 {
		log.Addf("필터 적용 후 남은 공고 없음")
		return Table{}, OutcomeEmpty
	}

	t := project(records)
	log.Addf("공고 건수(모든 필터 적용 후): %d건", t.Len())
	return t, OutcomeOK
}

func isNegotiated(r record) bool {
	return strings.Contains(r.text(FieldContract), NegotiatedMarker)
}

func keep(records []record, pred func(record) bool) []record {
	out := records[:0:0]
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// decodeEnvelope parses a single JSON object, keeping numbers in their
// original textual form.
func decodeEnvelope(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var envelope map[string]any
	if err := dec.Decode(&envelope); err != nil {
		return nil, err
	}
	if envelope == nil {
		return nil, errors.New("empty document")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after JSON document")
	}
	return envelope, nil
}

func decodeHeader(envelope map[string]any) (responseHeader, error) {
	var h responseHeader
	response, _ := envelope["response"].(map[string]any)
	raw, ok := response["header"]
	if !ok || raw == nil {
		return h, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &h,
	})
	if err != nil {
		return h, err
	}
	if err := dec.Decode(raw); err != nil {
		return h, fmt.Errorf("response header: %w", err)
	}
	return h, nil
}

func excerpt(body []byte, n int) string {
	r := []rune(string(body))
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
