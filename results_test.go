// Copyright © by the dns64perf authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package dns64perf

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/caffix/stringset"
)

func TestWriteResults(t *testing.T) {
	cfg := Config{
		Server:     net.ParseIP("2001:db8::1"),
		Port:       53,
		BaseAddr:   0x0a000000,
		Netmask:    8,
		Requests:   4,
		BurstSize:  2,
		BurstDelay: 100 * time.Millisecond,
	}

	now := time.Now()
	records := make([]QueryRecord, 4)
	for i := range records {
		records[i].SentAt = now.Add(time.Duration(i) * time.Millisecond)
		records[i].Received = true
		records[i].Answered = i < 3
		records[i].RTT = time.Duration(i+1) * time.Millisecond
	}

	path := filepath.Join(t.TempDir(), "results.csv")
	if err := WriteResults(path, cfg, records); err != nil {
		t.Fatalf("WriteResults failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("cannot read back the results: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}
	if lines[0] != "dns64perf test parameters" {
		t.Errorf("unexpected preamble: %q", lines[0])
	}
	if lines[1] != "server: 2001:db8::1" {
		t.Errorf("unexpected server line: %q", lines[1])
	}
	if lines[7] != resultsHeader {
		t.Errorf("unexpected header row: %q", lines[7])
	}

	var names []string
	for n := 0; n < 4; n++ {
		names = append(names, EncodeName(cfg.BaseAddr, uint32(n)))
	}
	set := stringset.New(names...)
	defer set.Close()

	for i, line := range lines[8:] {
		fields := strings.Split(line, ";")
		if len(fields) != 5 {
			t.Fatalf("row %d has %d fields: %q", i, len(fields), line)
		}
		if want := EncodeName(cfg.BaseAddr, uint32(i)); fields[0] != want {
			t.Errorf("row %d is out of order: got %q, want %q", i, fields[0], want)
		}
		if want := fmt.Sprintf("%d", records[i].SentAt.UnixNano()); fields[1] != want {
			t.Errorf("row %d tsent: got %q, want %q", i, fields[1], want)
		}
		if fields[2] != "1" {
			t.Errorf("row %d was written as not received", i)
		}
		set.Remove(fields[0])
	}
	if set.Len() > 0 {
		t.Errorf("not all query names appear in the results: %v", set.Slice())
	}
}

func TestWriteResultsOpenFailure(t *testing.T) {
	cfg := Config{Server: net.ParseIP("2001:db8::1"), Port: 53, Requests: 1, BurstSize: 1}

	path := filepath.Join(t.TempDir(), "missing", "results.csv")
	if err := WriteResults(path, cfg, make([]QueryRecord, 1)); err == nil {
		t.Error("WriteResults did not fail for an unwritable destination")
	}
}
