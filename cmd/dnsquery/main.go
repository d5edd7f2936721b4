//
// SPDX-License-Identifier: BSD-3-Clause
//

// Command dnsquery sends A queries to a DNS server over UDP and
// prints the query, the raw response, and the decoded response header.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"

	"github.com/akamensky/argparse"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/bassosimone/dnswire"
	"github.com/bassosimone/dnswire/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("dnsquery failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// options contains the command line options overriding the configuration.
type options struct {
	config  *string
	server  *string
	port    *int
	timeout *string
	names   *[]string
	idna    *bool
	verbose *bool
}

func newParser() (*argparse.Parser, *options) {
	parser := argparse.NewParser("dnsquery", "Sends A queries over UDP and decodes the response header")
	opts := &options{
		config: parser.String("c", "config", &argparse.Options{
			Help: "TOML configuration file",
		}),
		server: parser.String("s", "server", &argparse.Options{
			Help: "DNS server address (default: 8.8.8.8)",
		}),
		port: parser.Int("p", "port", &argparse.Options{
			Help: "DNS server port (default: 53)",
		}),
		timeout: parser.String("t", "timeout", &argparse.Options{
			Help: "exchange timeout (default: 5s)",
		}),
		names: parser.StringList("n", "name", &argparse.Options{
			Help: "name to query for, may be repeated",
		}),
		idna: parser.Flag("i", "idna", &argparse.Options{
			Help: "convert internationalized names to ASCII",
		}),
		verbose: parser.Flag("v", "verbose", &argparse.Options{
			Help: "dump the decoded Go values",
		}),
	}
	return parser, opts
}

func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(*opts.config)
	if err != nil {
		return nil, err
	}
	if *opts.server != "" {
		cfg.Server = *opts.server
	}
	if *opts.port != 0 {
		cfg.Port = *opts.port
	}
	if *opts.timeout != "" {
		cfg.Timeout = *opts.timeout
	}
	if len(*opts.names) > 0 {
		cfg.Names = *opts.names
	}
	cfg.IDNA = cfg.IDNA || *opts.idna
	cfg.Verbose = cfg.Verbose || *opts.verbose
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, w, stderr io.Writer) error {
	// 1. parse the command line and the configuration
	parser, opts := newParser()
	if err := parser.Parse(args); err != nil {
		fmt.Fprint(w, parser.Usage(err))
		return errors.WithStack(err)
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return err
	}
	logger := newLogger(stderr, cfg.Verbose)

	// 2. build and serialize the query
	query := dnswire.NewQuery()
	if cfg.IDNA {
		query.Options |= dnswire.QueryOptionIDNA
	}
	for _, name := range cfg.Names {
		query.AddQuestion(name)
	}
	fmt.Fprintln(w, query.String())
	if cfg.Verbose {
		spew.Fdump(w, query)
	}
	rawQuery, err := query.Serialize()
	if err != nil {
		return errors.Wrap(err, "failed to serialize the query")
	}
	fmt.Fprintln(w, "Binary packet representation:")
	fmt.Fprintln(w, dnswire.HexDump(rawQuery))

	// 3. exchange with the server
	server := net.JoinHostPort(cfg.Server, strconv.Itoa(cfg.Port))
	logger.Debug("sending query", "server", server, "id", query.ID, "questions", query.QuestionCount())
	txp := &dnswire.Transport{Timeout: timeout}
	rawResp, err := txp.Exchange(ctx, server, rawQuery)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Received %d bytes of response\n\n", len(rawResp))
	fmt.Fprintln(w, "Binary packet representation:")
	fmt.Fprintln(w, dnswire.HexDump(rawResp))

	// 4. decode the response header and the section counts
	header, rest, err := dnswire.ParseResponseHeader(rawResp)
	if err != nil {
		return errors.Wrap(err, "failed to decode the response header")
	}
	counts, countsErr := dnswire.DecodeSectionCounts(&rest)
	if countsErr != nil {
		logger.Warn("cannot decode the section counts", "err", countsErr)
	}
	fmt.Fprintln(w)
	if countsErr == nil {
		fmt.Fprintln(w, header.Dump(&counts))
	} else {
		fmt.Fprintln(w, header.String())
	}
	if cfg.Verbose {
		spew.Fdump(w, header)
		if countsErr == nil {
			spew.Fdump(w, counts)
		}
	}

	// 5. report anomalies without failing
	if err := dnswire.ValidateResponseHeaderForQuery(query, header); err != nil {
		logger.Warn("response does not match the query",
			"err", err, "queryID", query.ID, "responseID", header.ID)
	}
	rcodeErr := dnswire.ResponseErrorFromRCODE(header)
	if countsErr == nil {
		rcodeErr = dnswire.ResponseErrorFromHeader(header, counts)
	}
	if rcodeErr != nil {
		logger.Warn("server returned an error", "err", rcodeErr, "rcode", header.Flags.Rcode)
	}
	if header.Flags.Truncated {
		logger.Warn("response is truncated")
	}
	return nil
}
