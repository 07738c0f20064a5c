// Copyright © by the dns64perf authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package dns64perf

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// resultsHeader is the column header of the per-query section.
const resultsHeader = "query;tsent [ns];received;answered;rtt [ns]"

// WriteResults persists the run configuration and every slot's raw
// outcome as a ;-delimited text file, one row per sequence number in
// increasing order. The rtt column holds the record's zero value for
// queries that were never received.
func WriteResults(filename string, cfg Config, records []QueryRecord) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "cannot open results file")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "dns64perf test parameters\n")
	fmt.Fprintf(w, "server: %s\n", cfg.Server)
	fmt.Fprintf(w, "port: %d\n", cfg.Port)
	fmt.Fprintf(w, "number of requests: %d\n", cfg.Requests)
	fmt.Fprintf(w, "burst size: %d\n", cfg.BurstSize)
	fmt.Fprintf(w, "delay between bursts: %d ns\n\n", cfg.BurstDelay.Nanoseconds())
	fmt.Fprintln(w, resultsHeader)

	for n := range records {
		rec := &records[n]

		received, answered := 0, 0
		if rec.Received {
			received = 1
		}
		if rec.Answered {
			answered = 1
		}

		fmt.Fprintf(w, "%s;%d;%d;%d;%d\n", EncodeName(cfg.BaseAddr, uint32(n)),
			rec.SentAt.UnixNano(), received, answered, rec.RTT.Nanoseconds())
	}

	return errors.Wrap(w.Flush(), "cannot write results file")
}
