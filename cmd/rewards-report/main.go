// Команда rewards-report печатает одно из представлений с баллами в виде
// таблицы: транзакции, помесячные суммы или суммы за всё время.
//
//	rewards-report -file data/transactions.json -view monthly -customer joe
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/magabrotheeeer/rewards-aggregator/internal/http-server/handlers/monthly"
	"github.com/magabrotheeeer/rewards-aggregator/internal/http-server/handlers/params"
	"github.com/magabrotheeeer/rewards-aggregator/internal/http-server/handlers/total"
	"github.com/magabrotheeeer/rewards-aggregator/internal/http-server/handlers/transactions"
	"github.com/magabrotheeeer/rewards-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/rewards-aggregator/internal/models"
	"github.com/magabrotheeeer/rewards-aggregator/internal/services/rewards"
	"github.com/magabrotheeeer/rewards-aggregator/internal/source"
)

type options struct {
	file, url string
	timeout   time.Duration
	view      string
	filter    models.DummyFilter
	verbose   bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger, os.Stdout); err != nil {
		logger.Error("report failed", sl.Err(err))
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("rewards-report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.file, "file", "", "path to the transactions JSON document")
	fs.StringVar(&opts.url, "url", "", "URL of the transactions JSON document")
	fs.DurationVar(&opts.timeout, "timeout", 10*time.Second, "fetch timeout for -url")
	fs.StringVar(&opts.view, "view", rewards.ViewTotal, "view: transactions, monthly or total")
	fs.StringVar(&opts.filter.CustomerName, "customer", "", "case-insensitive customer name substring")
	fs.StringVar(&opts.filter.FromDate, "from", "", "inclusive start date, YYYY-MM-DD")
	fs.StringVar(&opts.filter.ToDate, "to", "", "inclusive end date, YYYY-MM-DD")
	fs.StringVar(&opts.filter.Product, "product", "", "product substring (transactions view)")
	fs.StringVar(&opts.filter.Month, "month", "", "month 1-12")
	fs.StringVar(&opts.filter.Year, "year", "", "four-digit year")
	fs.StringVar(&opts.filter.SortColumn, "sort", "", "sort column; defaults depend on the view")
	fs.StringVar(&opts.filter.SortOrder, "order", "", "sort order: asc or desc")
	fs.IntVar(&opts.filter.Page, "page", 0, "zero-based page number")
	fs.IntVar(&opts.filter.RowsPerPage, "rows", 0, "rows per page; 0 prints every row")
	fs.BoolVar(&opts.verbose, "v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if (opts.file == "") == (opts.url == "") {
		fmt.Fprintln(stderr, "exactly one of -file or -url is required")
		return opts, errors.New("no source")
	}
	switch opts.view {
	case rewards.ViewTransactions, rewards.ViewMonthly, rewards.ViewTotal:
	default:
		fmt.Fprintf(stderr, "unknown view %q\n", opts.view)
		return opts, errors.New("unknown view")
	}
	if opts.filter.SortOrder != "" && opts.filter.SortOrder != models.OrderAsc && opts.filter.SortOrder != models.OrderDesc {
		fmt.Fprintf(stderr, "unknown sort order %q\n", opts.filter.SortOrder)
		return opts, errors.New("unknown sort order")
	}
	return opts, nil
}

func run(ctx context.Context, opts options, logger *slog.Logger, out io.Writer) error {
	var src rewards.Source
	if opts.file != "" {
		src = source.NewFile(opts.file, logger)
	} else {
		src = source.NewHTTP(opts.url, opts.timeout, logger)
	}
	svc := rewards.NewService(src, logger)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	var count int

	switch opts.view {
	case rewards.ViewTransactions:
		page, err := svc.ListTransactions(ctx, query(opts.filter, transactions.DefaultSort))
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tCUSTOMER ID\tCUSTOMER\tDATE\tPRODUCT\tPRICE\tPOINTS")
		for _, tx := range page.Rows {
			price := "-"
			if tx.Price.Valid {
				price = tx.Price.Amount.StringFixed(2)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
				tx.ID, tx.CustomerID, tx.CustomerName, tx.PurchaseDate, tx.Product, price, tx.RewardPoints)
		}
		count = page.Count
	case rewards.ViewMonthly:
		page, err := svc.MonthlyRewards(ctx, query(opts.filter, monthly.DefaultSort))
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "CUSTOMER ID\tCUSTOMER\tYEAR\tMONTH\tPOINTS")
		for _, r := range page.Rows {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\n", r.CustomerID, r.CustomerName, r.Year, r.MonthName, r.RewardPoints)
		}
		count = page.Count
	case rewards.ViewTotal:
		page, err := svc.TotalRewards(ctx, query(opts.filter, total.DefaultSort))
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "CUSTOMER ID\tCUSTOMER\tPOINTS")
		for _, r := range page.Rows {
			fmt.Fprintf(w, "%s\t%s\t%d\n", r.CustomerID, r.CustomerName, r.RewardPoints)
		}
		count = page.Count
	}

	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\n%d row(s)\n", count)
	return err
}

// query собирает параметры так же, как HTTP API; rows=0 выводит всё.
func query(f models.DummyFilter, def models.SortSpec) models.Query {
	q := params.Query(params.WithDefaultSort(f, def))
	if q.Page.RowsPerPage <= 0 {
		q.Page = models.PageSpec{Page: 0, RowsPerPage: math.MaxInt}
	}
	return q
}
