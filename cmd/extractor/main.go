package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	flag "github.com/spf13/pflag"

	"github.com/Pawissanan/Get-YouTube-View/domain/dto"
	"github.com/Pawissanan/Get-YouTube-View/domain/model"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/configuration"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/export"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/logger"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/utils"
	"github.com/Pawissanan/Get-YouTube-View/server"
	"github.com/Pawissanan/Get-YouTube-View/usecase"
)

type options struct {
	apiKey             string
	channels           []string
	start              string
	end                string
	keyword            string
	hashtags           string
	includeDescription bool
	maxVideos          int
	format             string
	out                string
	sheet              bool
	issueToken         bool
	tokenSubject       string
	tokenTTL           time.Duration
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("extractor", flag.ContinueOnError)
	fs.StringVar(&opts.apiKey, "api-key", "", "YouTube Data API key (defaults to the configured key)")
	fs.StringSliceVarP(&opts.channels, "channels", "c", nil, "channel ids, comma separated or repeated")
	fs.StringVar(&opts.start, "start", "", "start month-year as MMYYYY, e.g. 012023")
	fs.StringVar(&opts.end, "end", "", "end month-year as MMYYYY, e.g. 062024")
	fs.StringVarP(&opts.keyword, "keyword", "k", "", "keyword matched in title or description")
	fs.StringVar(&opts.hashtags, "hashtags", "", `comma separated hashtags, e.g. "#AI, #tech"`)
	fs.BoolVar(&opts.includeDescription, "include-description", true, "extract hashtags and export the description column")
	fs.IntVar(&opts.maxVideos, "max-videos", configuration.C.Extraction.DefaultMaxVideos, "maximum rows per channel (1-500)")
	fs.StringVarP(&opts.format, "format", "f", "xlsx", "export format: xlsx or csv")
	fs.StringVarP(&opts.out, "out", "o", "", "export path (defaults to youtube_data_<start>_<end>.<ext>)")
	fs.BoolVar(&opts.sheet, "sheet", false, "also write the table to the configured Google Sheet")
	fs.BoolVar(&opts.issueToken, "issue-token", false, "print a bearer token for the HTTP API and exit")
	fs.StringVar(&opts.tokenSubject, "token-subject", "extractor", "subject of the issued token")
	fs.DurationVar(&opts.tokenTTL, "token-ttl", 24*time.Hour, "lifetime of the issued token")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o *options) request() *dto.ExtractionRequest {
	include := o.includeDescription
	return &dto.ExtractionRequest{
		RunID:              uuid.NewString(),
		APIKey:             o.apiKey,
		ChannelIDs:         strings.Join(o.channels, "\n"),
		StartMonthYear:     o.start,
		EndMonthYear:       o.end,
		Keyword:            o.keyword,
		Hashtags:           o.hashtags,
		IncludeDescription: &include,
		MaxVideos:          o.maxVideos,
	}
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if opts.issueToken {
		if configuration.C.App.SecretKey == "" {
			fmt.Fprintln(os.Stderr, "app.secretKey (SECRET_KEY) is not set")
			os.Exit(1)
		}
		token, err := utils.IssueAPIToken(opts.tokenSubject, opts.tokenTTL, configuration.C.App.SecretKey)
		if err != nil {
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, opts, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, opts *options, stdout, stderr io.Writer) int {
	youtubeConfig := configuration.GetYouTubeConfig()
	req := opts.request()
	req.ApplyDefaults(youtubeConfig.APIKey, youtubeConfig.HasToken())
	criteria, err := req.Criteria()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	exp, err := export.ForFormat(opts.format)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	deps := server.NewDependencies(ctx, configuration.C, youtubeConfig, nil)
	defer deps.Close()
	extraction := usecase.NewExtractionUsecase(deps.YouTubeFactory())
	for _, n := range deps.Notifiers {
		extraction.WithNotifier(n)
	}

	channels := req.Channels()
	quota := extraction.EstimateQuota(len(channels), criteria.MaxVideos)
	fmt.Fprintf(stderr, "Estimated quota: up to %d units (%d channels.list, %d playlistItems.list, %d videos.list)\n",
		quota.Total, quota.ChannelUnits, quota.PlaylistUnits, quota.VideoUnits)

	result, err := extraction.Run(ctx, usecase.RunInput{
		RunID:      req.RunID,
		APIKey:     req.APIKey,
		ChannelIDs: channels,
		Criteria:   criteria,
		Progress:   progressLogger(req.RunID),
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	for _, w := range result.Warnings {
		fmt.Fprintln(stderr, w)
	}
	if result.NoData() {
		fmt.Fprintln(stdout, model.NoDataMessage)
		return 0
	}
	if err := printTable(stdout, &result.Table, criteria.IncludeDescription); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	path := opts.out
	if path == "" {
		path = req.ExportFileName(exp.Extension())
	}
	if err := export.WriteFile(path, exp, &result.Table); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stderr, "Wrote %d rows to %s\n", result.Table.Len(), path)

	if opts.sheet {
		if deps.Sheet == nil {
			fmt.Fprintln(stderr, "Google Sheets export is not configured (googleSheet.spreadsheetId)")
			return 1
		}
		written, err := deps.Sheet.WriteTable(ctx, &result.Table)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintf(stderr, "Updated %s (%d rows) in spreadsheet %s\n", written.UpdatedRange, written.UpdatedRows, written.SpreadsheetID)
	}
	return 0
}

func progressLogger(runID string) usecase.ProgressFunc {
	return func(evt model.ProgressEvent) {
		logger.GetLogger().WithFields(map[string]interface{}{
			"runId":   runID,
			"stage":   evt.Stage,
			"channel": evt.ChannelID,
			"index":   evt.ChannelIndex,
			"count":   evt.ChannelCount,
			"rows":    evt.Rows,
		}).Info("Extraction progress")
	}
}

// printTable renders the rows with aligned columns. Descriptions are cut to their first line.
func printTable(w io.Writer, table *model.ResultTable, includeDescription bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	columns := model.Columns
	if !includeDescription {
		columns = columns[:len(columns)-1]
	}
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	for _, row := range table.Rows {
		cells := []string{row.ChannelName, row.VideoTitle, fmt.Sprint(row.ViewCount), row.PublishedDay()}
		if includeDescription {
			cells = append(cells, firstLine(row.Description, 60))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func firstLine(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if r := []rune(s); len(r) > max {
		return string(r[:max-3]) + "..."
	}
	return s
}
