// Copyright © by the dns64perf authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

// Package dns64perf measures the performance of a DNS64 gateway. A run
// transmits a configurable number of synthetic AAAA queries in timed
// bursts over UDP and correlates every response back to its originating
// query through the sequence number embedded in the probe name, so no
// transaction-ID bookkeeping is required. After the run the slot table
// yields delivery rate, answer validity, and round-trip-time statistics,
// and can be persisted as a ;-delimited text artifact.
package dns64perf

// Version is the current release of the dns64perf library and tool.
const Version = "0.4.0"
