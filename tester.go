// Copyright © by the dns64perf authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package dns64perf

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/miekg/dns"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/net/ipv6"
)

const (
	// maxUDPBufferSize gives the probe socket enough kernel queue
	// headroom that a burst does not drop datagrams before the receive
	// loop gets to them.
	maxUDPBufferSize = 64 * 1024 * 1024

	// DefaultTimeout bounds a single receive attempt when the
	// configuration does not provide a timeout.
	DefaultTimeout = time.Second
)

// Config carries the immutable parameters of a measurement run.
type Config struct {
	// Server is the address of the DNS64 gateway under test.
	Server net.IP

	// Port is the gateway's UDP port.
	Port uint16

	// BaseAddr is the IPv4 value whose high Netmask bits identify the
	// probe address block; the remaining low bits carry the sequence
	// number and must be zero in BaseAddr.
	BaseAddr uint32

	// Netmask is the number of fixed high bits in BaseAddr, between 0
	// and 32 inclusive.
	Netmask uint8

	// Requests is the total number of queries sent during the run.
	Requests uint32

	// BurstSize is the number of queries sent on each scheduler tick.
	BurstSize uint32

	// BurstDelay is the period between bursts.
	BurstDelay time.Duration

	// Timeout bounds every receive attempt. Zero selects
	// DefaultTimeout.
	Timeout time.Duration

	// DSCP optionally marks probe traffic with the given differentiated
	// services code point; zero leaves the default traffic class.
	DSCP int
}

func (c *Config) check() error {
	if c.Server == nil {
		return errors.New("no server address")
	}
	if c.Port == 0 {
		return errors.New("no server port")
	}
	if c.Netmask > 32 {
		return errors.Errorf("invalid netmask: %d", c.Netmask)
	}

	mask := IndexMask(c.Netmask)
	if c.BaseAddr&mask != 0 {
		return errors.Errorf("base address has bits set inside the %d sequence number bits", 32-c.Netmask)
	}
	if c.Requests == 0 {
		return errors.New("no requests to send")
	}
	if uint64(c.Requests) > uint64(mask)+1 {
		return errors.Errorf("%d requests do not fit in %d sequence number bits", c.Requests, 32-c.Netmask)
	}
	if c.BurstSize == 0 {
		return errors.New("invalid burst size")
	}
	if c.BurstDelay <= 0 {
		return errors.New("invalid burst delay")
	}
	if c.Timeout < 0 {
		return errors.New("invalid timeout")
	}
	if c.DSCP < 0 || c.DSCP > 63 {
		return errors.Errorf("invalid DSCP value: %d", c.DSCP)
	}
	return nil
}

// Tester performs one DNS64 measurement run: a scheduler-driven sender
// paired with a single receive loop, correlated through the sequence
// number embedded in every probe name.
type Tester struct {
	cfg      Config
	log      *zap.Logger
	conn     *net.UDPConn
	server   *net.UDPAddr
	template *queryTemplate
	slots    []QueryRecord
	numSent  atomic.Uint32
	sendDone chan struct{}
}

// NewTester validates the configuration, opens the probe socket bound
// to an ephemeral local port, and pre-builds the slot table and query
// template. A nil logger disables logging.
func NewTester(cfg Config, logger *zap.Logger) (*Tester, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{})
	if err != nil {
		return nil, errors.Wrap(err, "cannot create socket")
	}
	_ = conn.SetReadBuffer(maxUDPBufferSize)

	if cfg.DSCP != 0 {
		if err := ipv6.NewPacketConn(conn).SetTrafficClass(cfg.DSCP << 2); err != nil {
			logger.Warn("cannot set traffic class", zap.Int("dscp", cfg.DSCP), zap.Error(err))
		}
	}

	template, err := newQueryTemplate(cfg.BaseAddr)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &Tester{
		cfg:      cfg,
		log:      logger,
		conn:     conn,
		server:   &net.UDPAddr{IP: cfg.Server, Port: int(cfg.Port)},
		template: template,
		slots:    newQueryRecords(cfg.Requests),
		sendDone: make(chan struct{}),
	}, nil
}

// Close releases the probe socket.
func (t *Tester) Close() error {
	return t.conn.Close()
}

// Records returns the slot table. The records are only finalized once
// Run has returned.
func (t *Tester) Records() []QueryRecord {
	return t.slots
}

// Run executes the measurement: the burst scheduler drives the sender
// on its own goroutine while the calling goroutine receives responses.
// It returns once every query has been sent and a final receive cycle
// has completed, or immediately on the first fatal error.
func (t *Tester) Run() error {
	bursts := int((t.cfg.Requests + t.cfg.BurstSize - 1) / t.cfg.BurstSize)

	t.log.Info("starting measurement",
		zap.String("server", t.server.String()),
		zap.Uint32("requests", t.cfg.Requests),
		zap.Uint32("burst_size", t.cfg.BurstSize),
		zap.Duration("burst_delay", t.cfg.BurstDelay))

	newTimer(t.cfg.BurstDelay, bursts, t.sendBurst).start()
	return t.receive()
}

// sendBurst transmits the next group of queries, fewer on the final
// partial burst. A send failure is logged and the query still counts as
// sent; it will simply never be received.
func (t *Tester) sendBurst() {
	for i := uint32(0); i < t.cfg.BurstSize; i++ {
		n := t.numSent.Load()
		if n >= t.cfg.Requests {
			return
		}

		t.template.setAddr(t.cfg.BaseAddr | n)
		out := t.template.bytes()
		if w, err := t.conn.WriteToUDP(out, t.server); err != nil {
			t.log.Warn("cannot send query", zap.Uint32("seq", n), zap.Error(err))
		} else if w < len(out) {
			t.log.Warn("short write", zap.Uint32("seq", n),
				zap.Int("wrote", w), zap.Int("expected", len(out)))
		}
		t.slots[n].SentAt = time.Now()

		// The counter increment publishes the SentAt write above.
		t.numSent.Add(1)
		if n+1 == t.cfg.Requests {
			close(t.sendDone)
		}
	}
}

// receive runs the single receive loop until every query has been sent
// and one further receive cycle has completed, so a response to the
// final burst still has a full timeout to arrive. A timeout is not an
// error; every other receive failure is fatal.
func (t *Tester) receive() error {
	b := make([]byte, dns.DefaultMsgSize)

	for {
		var last bool
		select {
		case <-t.sendDone:
			last = true
		default:
		}

		_ = t.conn.SetReadDeadline(time.Now().Add(t.cfg.Timeout))
		n, from, err := t.conn.ReadFromUDP(b)
		if err != nil {
			if nerr, ok := err.(net.Error); !ok || !nerr.Timeout() {
				return errors.Wrap(err, "error in receive")
			}
		} else {
			at := time.Now()
			if herr := t.handleResponse(b[:n], from, at); herr != nil {
				return herr
			}
		}

		if last {
			return nil
		}
	}
}

// handleResponse correlates one inbound datagram with its originating
// query and finalizes the matching slot.
func (t *Tester) handleResponse(b []byte, from *net.UDPAddr, at time.Time) error {
	// Data from an unexpected host must never be attributed to a query.
	if !from.IP.Equal(t.server.IP) || from.Port != t.server.Port {
		return errors.Wrapf(ErrUnexpectedSender, "[%s]:%d", from.IP, from.Port)
	}

	msg := new(dns.Msg)
	if err := msg.Unpack(b); err != nil {
		return errors.Wrap(err, "cannot parse the answer")
	}
	if len(msg.Question) == 0 {
		return ErrInvalidAnswer
	}

	n, err := DecodeIndex(msg.Question[0].Name, t.cfg.Netmask, t.cfg.Requests)
	if err != nil {
		return errors.Wrap(err, msg.Question[0].Name)
	}
	if n >= t.numSent.Load() {
		// A response cannot precede its query; the counter load also
		// orders the slot read after the sender's SentAt write.
		return errors.Wrapf(ErrIndexOutOfRange, "sequence number %d not yet sent", n)
	}

	slot := &t.slots[n]
	slot.Received = true
	slot.RTT = at.Sub(slot.SentAt)
	slot.Answered = msg.Response && msg.Rcode == dns.RcodeSuccess && len(msg.Answer) > 0

	t.log.Debug("response correlated",
		zap.Uint32("seq", n),
		zap.Duration("rtt", slot.RTT),
		zap.Bool("answered", slot.Answered))
	return nil
}
