// Copyright © by the dns64perf authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package dns64perf

import "errors"

// Fatal protocol conditions observed while receiving. Any error
// returned from a run is fatal and aborts the whole measurement; the
// only non-fatal failure in the core is an individual send error, which
// is logged and leaves the query counted as sent but never received.
var (
	// ErrUnexpectedSender reports a datagram from a host or port other
	// than the configured DUT.
	ErrUnexpectedSender = errors.New("received packet from other host than the DUT")

	// ErrInvalidAnswer reports a response that does not echo a question.
	ErrInvalidAnswer = errors.New("invalid answer from server, qdcount == 0")

	// ErrMalformedLabel reports a question whose first label does not
	// parse as the four octets of the probe template.
	ErrMalformedLabel = errors.New("malformed address label in question")

	// ErrIndexOutOfRange reports a recovered sequence number outside
	// the test's index space.
	ErrIndexOutOfRange = errors.New("unexpected FQDN in question: sequence number too large")
)
