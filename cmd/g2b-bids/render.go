package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"g2b-bids/internal/g2b"
)

var (
	failColor = color.New(color.FgRed)
	warnColor = color.New(color.FgYellow)
	noteColor = color.New(color.FgCyan)
)

// logColor picks a colour for one operation log line.
func logColor(line string) *color.Color {
	switch {
	case containsAny(line, "오류", "실패", "예외", "설정되지 않았습니다"):
		return failColor
	case strings.Contains(line, "없음"):
		return warnColor
	case strings.Contains(line, "필터"):
		return noteColor
	}
	return nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func printLog(w io.Writer, log g2b.OperationLog) {
	fmt.Fprintln(w, "[처리 로그]")
	for _, line := range log.Lines() {
		if c := logColor(line); c != nil {
			fmt.Fprintln(w, c.Sprint(line))
			continue
		}
		fmt.Fprintln(w, line)
	}
}

func printTable(w io.Writer, t g2b.Table) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

func printRegions(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "코드\t지역")
	for _, r := range g2b.RegionCodes {
		fmt.Fprintf(tw, "%s\t%s\n", r.Code, r.Name)
	}
	_ = tw.Flush()
	fmt.Fprintln(w, "\n필터를 사용하지 않으려면 --region 을 비워 두세요.")
}
