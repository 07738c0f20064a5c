// Copyright © by the dns64perf authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package dns64perf

import "time"

// QueryRecord tracks the outcome of a single probe query. Records are
// indexed by sequence number, which is the sole correlation key for the
// whole run.
//
// Each record is written at most twice: the sender sets SentAt exactly
// once, and the receiver sets the remaining fields when a correlated
// response arrives. The writes cannot race because a response can only
// be correlated after its query was sent.
type QueryRecord struct {
	// SentAt is the transmission timestamp, set even when the send
	// itself failed.
	SentAt time.Time

	// Received reports that a correlated datagram arrived from the DUT.
	Received bool

	// Answered reports that the response additionally carried a valid
	// answer: response flag set, no-error status, and at least one
	// answer record.
	Answered bool

	// RTT is the time between SentAt and the receipt of the response.
	// Only meaningful when Received is true.
	RTT time.Duration
}

func newQueryRecords(total uint32) []QueryRecord {
	return make([]QueryRecord, total)
}
