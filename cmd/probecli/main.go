// Command probecli проверяет пакет URL из аргументов и/или таблицы и печатает отчёт.
//
// Использование:
//
//	probecli [-w 70] [-t 5s] [-f urls.csv] [url ...]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/Totarae/URLProbe/internal/batch"
	"github.com/Totarae/URLProbe/internal/extract"
	"github.com/Totarae/URLProbe/internal/model"
	"github.com/Totarae/URLProbe/internal/prober"
	"github.com/fatih/color"
)

var errNoURLs = errors.New("no URLs given")

// unhealthyError возвращается, если хотя бы один URL попал в категорию error.
type unhealthyError struct {
	failed int
	total  int
}

func (e *unhealthyError) Error() string {
	return fmt.Sprintf("%d of %d URLs failed", e.failed, e.total)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("probecli", flag.ContinueOnError)
	workers := fs.Int("w", batch.DefaultMaxConcurrency, "max concurrent probes")
	timeout := fs.Duration("t", prober.DefaultTimeout, "timeout of a single probe")
	file := fs.String("f", "", "CSV or XLSX file with URLs")
	noColor := fs.Bool("no-color", false, "disable colored output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *noColor {
		color.NoColor = true
	}

	urls, err := collectURLs(*file, fs.Args())
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return errNoURLs
	}

	res, err := batch.NewRunner(prober.New(*timeout), nil).Run(ctx, urls, *workers)
	if err != nil {
		return err
	}

	printReport(out, res)

	if failed := res.Summary.CategoryCounts[model.CategoryError]; failed > 0 {
		return &unhealthyError{failed: failed, total: len(res.Results)}
	}
	return nil
}

func collectURLs(path string, args []string) ([]string, error) {
	var fileURLs []string
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		fileURLs, err = extract.FromUpload(path, f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	urls := make([]string, 0, len(args)+len(fileURLs))
	for _, a := range args {
		if a = strings.TrimSpace(a); a != "" {
			urls = append(urls, a)
		}
	}
	return append(urls, fileURLs...), nil
}

func printReport(out io.Writer, res *model.BatchResult) {
	for _, r := range res.Results {
		line := categoryColor(r.Category).SprintfFunc()
		fmt.Fprintf(out, "%s %-4s %7s  %s\n",
			line("%-8s", r.Category),
			r.StatusCode,
			time.Duration(r.ResponseTime*float64(time.Second)).Round(time.Millisecond),
			r.URL,
		)
		if !r.StatusCode.Received() {
			fmt.Fprintf(out, "         %s\n", r.Message)
		}
	}

	fmt.Fprintln(out)
	codes := make([]string, 0, len(res.Summary.ByStatusCode))
	for code := range res.Summary.ByStatusCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		bucket := res.Summary.ByStatusCode[code]
		fmt.Fprintf(out, "%-4s x%d  %s\n", code, bucket.Count, bucket.Message)
	}

	fmt.Fprintln(out)
	for _, c := range []model.Category{model.CategoryActive, model.CategoryInactive, model.CategoryError} {
		fmt.Fprintf(out, "%s: %d\n", categoryColor(c).Sprint(c), res.Summary.CategoryCounts[c])
	}
}

func categoryColor(c model.Category) *color.Color {
	switch c {
	case model.CategoryActive:
		return color.New(color.FgGreen)
	case model.CategoryInactive:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}
