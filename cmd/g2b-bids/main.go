// Command g2b-bids runs one filtered search against the 나라장터
// construction-bid announcement API, prints the operation log and the
// result table, and optionally saves the table as a spreadsheet.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"g2b-bids/internal/config"
	"g2b-bids/internal/credential"
	"g2b-bids/internal/export"
	"g2b-bids/internal/g2b"
)

type searchFlags struct {
	start, end      string
	basis           string
	title, industry string
	region          string
	minPrice        string
	maxPrice        string
	contract        string
	page, rows      int
	xlsx            string
	xlsxDir         string
	noColor         bool
	skipPrompt      bool
}

func main() {
	if err := newRootCmd(time.Now).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(now func() time.Time) *cobra.Command {
	def := g2b.DefaultCriteria(now())
	f := &searchFlags{}

	cmd := &cobra.Command{
		Use:          "g2b-bids",
		Short:        "나라장터 공사공고 필터 조회",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSearch(cmd.Context(), cmd.OutOrStdout(), f, now)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.start, "start", def.StartDate.Format("2006-01-02"), "조회 시작일 (YYYY-MM-DD, 빈 값이면 생략)")
	fl.StringVar(&f.end, "end", def.EndDate.Format("2006-01-02"), "조회 종료일 (YYYY-MM-DD, 빈 값이면 생략)")
	fl.StringVar(&f.basis, "basis", "announcement", "조회 기준: announcement(공고게시일) | opening(개찰일)")
	fl.StringVar(&f.title, "title", "", "공고명 검색어")
	fl.StringVar(&f.industry, "industry", "", "업종명 검색어")
	fl.StringVar(&f.region, "region", "", "참가제한 지역코드 (예: 41). 'g2b-bids regions' 참고")
	fl.StringVar(&f.minPrice, "min-price", "", "최소 기초금액 (예: 100,000,000)")
	fl.StringVar(&f.maxPrice, "max-price", "", "최대 기초금액 (예: 300,000,000)")
	fl.StringVar(&f.contract, "contract", string(g2b.ContractAll), "계약방법 필터: all | only_negotiated | exclude_negotiated")
	fl.IntVar(&f.page, "page", def.PageNo, "페이지 (1-10)")
	fl.IntVar(&f.rows, "rows", def.NumOfRows, "행 수 (10-500, 10 단위)")
	fl.StringVar(&f.xlsx, "xlsx", "", "엑셀 파일 경로 (지정 시 저장)")
	fl.StringVar(&f.xlsxDir, "xlsx-dir", "", "엑셀 파일을 기본 이름으로 저장할 디렉터리")

	pf := cmd.PersistentFlags()
	pf.BoolVar(&f.noColor, "no-color", false, "색상 출력 끄기")
	pf.BoolVar(&f.skipPrompt, "no-prompt", false, "SERVICE_KEY 입력 프롬프트 생략")

	cmd.AddCommand(newRegionsCmd())
	return cmd
}

func newRegionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "참가제한 지역코드 목록",
		Run: func(cmd *cobra.Command, _ []string) {
			printRegions(cmd.OutOrStdout())
		},
	}
}

func (f *searchFlags) criteria() (g2b.Criteria, error) {
	var c g2b.Criteria
	var err error
	if c.StartDate, err = g2b.ParseDate(f.start); err != nil {
		return c, err
	}
	if c.EndDate, err = g2b.ParseDate(f.end); err != nil {
		return c, err
	}
	if c.Basis, err = g2b.ParseBasis(f.basis); err != nil {
		return c, err
	}
	if c.Contract, err = g2b.ParseContractFilter(f.contract); err != nil {
		return c, err
	}
	c.Title = f.title
	c.Industry = f.industry
	c.Region = f.region
	c.MinPrice = f.minPrice
	c.MaxPrice = f.maxPrice
	c.PageNo = f.page
	c.NumOfRows = f.rows
	return c.Clamp(), nil
}

func runSearch(ctx context.Context, out io.Writer, f *searchFlags, now func() time.Time) error {
	if f.noColor {
		color.NoColor = true
	}
	log := logrus.New()
	log.SetOutput(os.Stderr)

	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	log.SetLevel(cfg.LogLevel)

	crit, err := f.criteria()
	if err != nil {
		return err
	}

	resolver := credential.NewResolver(cfg.SecretsFile)
	if f.skipPrompt {
		resolver.Prompt = nil
	}
	serviceKey, source, err := resolver.Resolve()
	if err != nil {
		log.WithError(err).Warn("service key lookup reported an error")
	}
	log.WithField("source", source).Debug("service key resolved")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := g2b.NewClient(serviceKey, g2b.WithBaseURL(cfg.BaseURL), g2b.WithTimeout(cfg.Timeout))
	res := g2b.Search(ctx, client, crit)

	printLog(out, res.Log)
	if res.Table.Len() == 0 {
		fmt.Fprintln(out, color.YellowString("조건에 해당하는 공고가 없습니다."))
	} else {
		fmt.Fprintln(out)
		printTable(out, res.Table)
		fmt.Fprintf(out, "\n조회된 공고 수: %s 건 | 조회 기준: %s | 페이지 / 행 수: %d / %d\n",
			g2b.FormatWon(int64(res.Table.Len())), crit.Basis.Label(), crit.PageNo, crit.NumOfRows)

		if path := xlsxPath(f, now()); path != "" {
			if err := saveXLSX(path, res.Table); err != nil {
				fmt.Fprintln(out, color.RedString("엑셀 생성 중 오류: %v", err))
				return err
			}
			fmt.Fprintf(out, "엑셀 저장: %s\n", path)
		}
	}

	switch res.Outcome {
	case g2b.OutcomeOK, g2b.OutcomeEmpty:
		return nil
	}
	return fmt.Errorf("search ended with outcome %q", res.Outcome)
}

func xlsxPath(f *searchFlags, now time.Time) string {
	if f.xlsx != "" {
		return f.xlsx
	}
	if f.xlsxDir != "" {
		return filepath.Join(f.xlsxDir, export.FileName(now))
	}
	return ""
}

func saveXLSX(path string, t g2b.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteXLSX(file, t); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
