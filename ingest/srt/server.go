// Package srt accepts an SRT contribution feed carrying a raw MMT/TLV
// multiplex and drives it through a demux.Demuxer, one connection per
// broadcast multiplex. This is the real-world delivery path for ARIB
// 4K/8K headend feeds arriving at a downstream facility over a
// contribution link, ahead of the satellite uplink itself.
//
// Adapted from the teacher's ingest/srt/server.go: the accept loop,
// stream-id handling, and connection lifecycle are unchanged; the
// per-connection body is rewired from "pipe bytes to an ingest registry
// stream" to "frame TLV packets and drive a demux.Demuxer".
package srt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	srtgo "github.com/zsiec/srtgo"

	"github.com/zsiec/mmtdemux/acas"
	"github.com/zsiec/mmtdemux/demux"
	"github.com/zsiec/mmtdemux/tlv"
)

// srtReadBufferSize is the read buffer for SRT socket reads. 1316 bytes
// is the standard SRT payload size; a multiple gives headroom against a
// single Read returning several TLV packets at once.
const srtReadBufferSize = 1316 * 10

// srtLatencyNs is the SRT latency setting in nanoseconds (120ms).
const srtLatencyNs = 120_000_000

// maxPendingBytes bounds how much unparsed input a connection may
// accumulate waiting for a complete TLV packet before the connection is
// dropped as malformed. The largest legal TLV payload is 65535 bytes
// (a 16-bit data_length) plus the 4-byte header.
const maxPendingBytes = 65535 + 4

// NewCard is a smart-card factory, invoked once per accepted connection
// so every multiplex gets its own descrambler key state. If nil is
// configured on the Server, each connection gets an unkeyed
// acas.SoftwareCard.
type NewCard func() acas.Card

// Server accepts incoming SRT connections, each expected to carry one
// MMT/TLV multiplex, and drives each through its own Demuxer reporting
// to a shared Handler.
type Server struct {
	log     *slog.Logger
	addr    string
	handler demux.Handler
	newCard NewCard
}

// NewServer creates an SRT server that listens on addr and feeds every
// accepted connection's byte stream to a fresh Demuxer reporting to
// handler. If log is nil, slog.Default() is used. If newCard is nil,
// every connection gets its own unkeyed acas.SoftwareCard.
func NewServer(addr string, handler demux.Handler, newCard NewCard, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if newCard == nil {
		newCard = func() acas.Card { return acas.NewSoftwareCard() }
	}
	return &Server{
		log:     log.With("component", "srt-server"),
		addr:    addr,
		handler: handler,
		newCard: newCard,
	}
}

// Start begins accepting SRT connections. It blocks until the context
// is cancelled.
func (s *Server) Start(ctx context.Context) error {
	cfg := srtgo.DefaultConfig()
	cfg.Latency = srtLatencyNs

	l, err := srtgo.Listen(s.addr, cfg)
	if err != nil {
		return fmt.Errorf("SRT listen on %s: %w", s.addr, err)
	}
	s.log.Info("listening", "addr", s.addr)

	l.SetAcceptRejectFunc(func(req srtgo.ConnRequest) srtgo.RejectReason {
		return 0
	})

	go func() {
		<-ctx.Done()
		l.Close()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.log.Warn("accept error", "error", err)
			continue
		}

		muxID := muxIdentifier(conn.StreamID())
		s.log.Info("multiplex connected", "mux_id", muxID, "remote", conn.RemoteAddr())

		go s.handleConnection(ctx, conn, muxID)
	}
}

func (s *Server) handleConnection(ctx context.Context, conn *srtgo.Conn, muxID string) {
	defer conn.Close()

	card := s.newCard()
	d := demux.New(s.handler, card, s.log.With("mux_id", muxID))
	d.Init()

	var pending []byte
	readBuf := make([]byte, srtReadBufferSize)
	var bytesRead, packetsConsumed, resyncs int64

	for {
		if ctx.Err() != nil {
			break
		}
		n, err := conn.Read(readBuf)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Debug("read error", "mux_id", muxID, "error", err)
			}
			break
		}
		bytesRead += int64(n)
		pending = append(pending, readBuf[:n]...)

		if len(pending) > maxPendingBytes {
			s.log.Warn("unparseable backlog, dropping connection", "mux_id", muxID, "pending", len(pending))
			break
		}

		r := tlv.NewByteReader(pending)
	drain:
		for {
			switch d.ProcessPacket(r) {
			case demux.StatusConsumed:
				packetsConsumed++
			case demux.StatusResync:
				resyncs++
			case demux.StatusNeedMoreBytes:
				break drain
			}
		}
		pending = append([]byte(nil), pending[r.Pos():]...)

		if len(pending) > maxPendingBytes {
			s.log.Warn("unparseable backlog, dropping connection", "mux_id", muxID, "pending", len(pending))
			break
		}
	}

	d.Clear()
	s.log.Info("multiplex closed", "mux_id", muxID,
		"bytes", bytesRead, "packets", packetsConsumed, "resyncs", resyncs)
}

// muxIdentifier derives a log-friendly identifier for a connection from
// its SRT stream id, falling back to a constant when the peer didn't
// set one (common for single-program contribution links).
func muxIdentifier(streamID string) string {
	streamID = strings.TrimPrefix(streamID, "/")
	streamID = strings.TrimPrefix(streamID, "live/")
	if streamID == "" {
		return "default"
	}
	return streamID
}
