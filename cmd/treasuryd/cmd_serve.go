package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/app"
	"github.com/iov-one/treasury/metrics"
	"github.com/iov-one/treasury/notify"
)

func cmdServe(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Run the treasury. Signed transactions are read from the input, one JSON
encoded transaction per line, and the result of each is written to the
output. The process stops when the input is closed or on interrupt.

Prometheus metrics are served on the configured metrics address. Committed
events are published to redis when a redis address is configured.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl = fl.String("home", defaultHome(), "Treasury home directory.")
	)
	fl.Parse(args)

	conf, err := LoadConfig(*homeFl)
	if err != nil {
		return fmt.Errorf("cannot load configuration: %s", err)
	}

	m, err := metrics.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("cannot register metrics: %s", err)
	}
	sinks := treasury.MultiSink{m}
	if conf.RedisAddr != "" {
		client, err := notify.Dial(conf.RedisAddr)
		if err != nil {
			return err
		}
		defer client.Close()
		sinks = append(sinks, notify.NewRedisSink(client, conf.RedisChannel))
	}

	n, err := openNode(*homeFl, sinks, metrics.NewDecorator(m))
	if err != nil {
		return err
	}
	defer n.Close()

	var g run.Group
	{
		ctx, cancel := context.WithCancel(context.Background())
		g.Add(func() error {
			return serveInput(ctx, n.app, input, output)
		}, func(error) {
			cancel()
		})
	}
	if conf.MetricsAddr != "" {
		srv := &http.Server{Addr: conf.MetricsAddr, Handler: metricsHandler()}
		g.Add(func() error {
			if err := srv.ListenAndServe(); err != http.ErrServerClosed {
				return fmt.Errorf("metrics server: %s", err)
			}
			return nil
		}, func(error) {
			srv.Shutdown(context.Background())
		})
	}
	{
		sig := make(chan os.Signal, 1)
		done := make(chan struct{})
		g.Add(func() error {
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			select {
			case s := <-sig:
				return fmt.Errorf("received signal %s", s)
			case <-done:
				return nil
			}
		}, func(error) {
			signal.Stop(sig)
			close(done)
		})
	}
	return g.Run()
}

func metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// serveInput delivers every transaction read from the input. A transaction
// that cannot be decoded or fails is reported in the output and does not
// stop processing.
func serveInput(ctx context.Context, a *app.Application, input io.Reader, output io.Writer) error {
	lines := bufio.NewScanner(input)
	lines.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lines.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if len(lines.Bytes()) == 0 {
			continue
		}
		if err := writeJSON(output, serveLine(a, lines.Bytes())); err != nil {
			return err
		}
	}
	return lines.Err()
}

func serveLine(a *app.Application, line []byte) app.Result {
	var tx app.Tx
	if err := json.Unmarshal(line, &tx); err != nil {
		return app.Result{Code: 1, Log: fmt.Sprintf("cannot decode transaction: %s", err)}
	}
	raw, err := app.EncodeTx(&tx)
	if err != nil {
		return app.Result{Code: 1, Log: fmt.Sprintf("cannot encode transaction: %s", err)}
	}
	return a.DeliverTx(raw)
}
