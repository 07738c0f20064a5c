// Copyright © by the dns64perf authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package dns64perf

import (
	"testing"

	"github.com/miekg/dns"
)

func TestQueryTemplate(t *testing.T) {
	const base = 0x0a000000

	tpl, err := newQueryTemplate(base)
	if err != nil {
		t.Fatalf("cannot build the query template: %v", err)
	}

	msg := new(dns.Msg)
	if err := msg.Unpack(tpl.bytes()); err != nil {
		t.Fatalf("the template does not unpack: %v", err)
	}
	if msg.Id != 0 {
		t.Errorf("template ID is %d instead of 0", msg.Id)
	}
	if !msg.RecursionDesired {
		t.Error("the recursion desired flag is not set")
	}
	if len(msg.Question) != 1 {
		t.Fatalf("expected one question, got %d", len(msg.Question))
	}

	q := msg.Question[0]
	if want := EncodeName(base, 0); q.Name != want {
		t.Errorf("question name is %q, want %q", q.Name, want)
	}
	if q.Qtype != dns.TypeAAAA || q.Qclass != dns.ClassINET {
		t.Errorf("unexpected question type/class: %d/%d", q.Qtype, q.Qclass)
	}
}

func TestQueryTemplateSetAddr(t *testing.T) {
	const base = 0x0a000000

	tpl, err := newQueryTemplate(base)
	if err != nil {
		t.Fatalf("cannot build the query template: %v", err)
	}
	size := len(tpl.bytes())

	tpl.setAddr(base | 42)

	msg := new(dns.Msg)
	if err := msg.Unpack(tpl.bytes()); err != nil {
		t.Fatalf("the rewritten template does not unpack: %v", err)
	}
	if want := EncodeName(base, 42); msg.Question[0].Name != want {
		t.Errorf("question name is %q, want %q", msg.Question[0].Name, want)
	}
	if len(tpl.bytes()) != size {
		t.Errorf("the rewrite changed the message size from %d to %d", size, len(tpl.bytes()))
	}
}
