// Command mmtdemux wires the MMT/TLV demultiplexer core to an SRT
// contribution feed (or, for offline testing, a captured TLV file) and
// logs every decoded event. It is the consumer-side CLI: the demuxer
// itself exposes no network or file surface of its own.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/zsiec/mmtdemux/acas"
	"github.com/zsiec/mmtdemux/demux"
	srtingest "github.com/zsiec/mmtdemux/ingest/srt"
	"github.com/zsiec/mmtdemux/tlv"
)

var version = "dev"

func main() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	srtAddr := envOr("SRT_ADDR", ":6001")
	inputFile := os.Getenv("INPUT_FILE")

	slog.Info("mmtdemux starting", "version", version, "srt", srtAddr)

	handler := newLoggingHandler(slog.Default())

	g, ctx := errgroup.WithContext(ctx)

	srtSrv := srtingest.NewServer(srtAddr, handler, nil, nil)
	g.Go(func() error {
		return srtSrv.Start(ctx)
	})

	if inputFile != "" {
		g.Go(func() error {
			return replayFile(ctx, inputFile, handler)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("mmtdemux error", "error", err)
		os.Exit(1)
	}
}

// replayFile drives the demuxer directly from a captured TLV byte
// stream, the "demux-drive goroutine" side of the pipeline when no live
// SRT feed is available — useful for replaying a recorded headend
// capture against the same Handler the live path uses.
func replayFile(ctx context.Context, path string, handler demux.Handler) error {
	log := slog.With("component", "file-replay", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	d := demux.New(handler, acas.NewSoftwareCard(), log)
	d.Init()
	defer d.Clear()

	r := tlv.NewByteReader(data)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		switch d.ProcessPacket(r) {
		case demux.StatusNeedMoreBytes:
			log.Info("replay complete")
			return nil
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
