package g2b

import (
	"fmt"
	"time"
)

func ExampleBuildQuery() {
	q, err := BuildQuery("test-key", Criteria{
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Basis:     BasisAnnouncement,
		Title:     "보수공사",
		Region:    "1",
		PageNo:    1,
		NumOfRows: 100,
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(q.Encode())
	// Output:
	// bidNtceNm=%EB%B3%B4%EC%88%98%EA%B3%B5%EC%82%AC&inqryBgnDt=202503010000&inqryDiv=1&inqryEndDt=202503312359&numOfRows=100&pageNo=1&prtcptLmtRgnCd=01&serviceKey=test-key&type=json
}
