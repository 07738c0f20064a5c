// Copyright © by the dns64perf authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package dns64perf

import (
	"fmt"
	"io"
	"math"
)

// Stats summarizes a finalized slot table.
type Stats struct {
	Total    uint32
	Received uint32
	Answered uint32

	// RTTMean and RTTStdDev are in nanoseconds and only meaningful when
	// Received is greater than zero. The deviation uses the population
	// formula.
	RTTMean   float64
	RTTStdDev float64
}

// ComputeStats aggregates the slot table of a completed run.
func ComputeStats(records []QueryRecord) *Stats {
	s := &Stats{Total: uint32(len(records))}

	for i := range records {
		if records[i].Received {
			s.Received++
		}
		if records[i].Answered {
			s.Answered++
		}
	}
	if s.Received == 0 {
		return s
	}

	var sum float64
	for i := range records {
		if records[i].Received {
			sum += float64(records[i].RTT)
		}
	}
	s.RTTMean = sum / float64(s.Received)

	var dev float64
	for i := range records {
		if records[i].Received {
			dev += math.Pow(float64(records[i].RTT)-s.RTTMean, 2)
		}
	}
	s.RTTStdDev = math.Sqrt(dev / float64(s.Received))

	return s
}

// ReceivedPercent is the share of queries that produced a correlated
// response.
func (s *Stats) ReceivedPercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Received) / float64(s.Total) * 100
}

// AnsweredPercent is the share of queries that produced a valid answer.
func (s *Stats) AnsweredPercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Answered) / float64(s.Total) * 100
}

// Report writes the human-readable summary of the run. With no received
// responses the round-trip section reports "no data" instead of a
// meaningless mean.
func (s *Stats) Report(w io.Writer) {
	fmt.Fprintf(w, "Sent queries: %d\n", s.Total)
	fmt.Fprintf(w, "Received answers: %d (%.2f%%)\n", s.Received, s.ReceivedPercent())
	fmt.Fprintf(w, "Valid answers: %d (%.2f%%)\n", s.Answered, s.AnsweredPercent())

	if s.Received == 0 {
		fmt.Fprintf(w, "Round-trip time: no data\n")
		return
	}
	fmt.Fprintf(w, "Average round-trip time: %.2f ms\n", s.RTTMean/1e6)
	fmt.Fprintf(w, "Standard deviation of the round-trip time: %.2f ms\n", s.RTTStdDev/1e6)
}
