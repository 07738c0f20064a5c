// Copyright © by the dns64perf authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package dns64perf

import (
	"github.com/miekg/dns"
	"github.com/pkg/errors"
)

// headerSize is the fixed DNS message header length; the question name
// begins immediately after it.
const headerSize = 12

// queryTemplate is the reusable probe message. It is packed once at
// construction and only the fixed-width address label is rewritten
// before each transmission. The template is owned exclusively by the
// sender; the receiver never touches it.
type queryTemplate struct {
	buf   []byte
	label []byte // window over the address-bearing label
}

func newQueryTemplate(base uint32) (*queryTemplate, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(EncodeName(base, 0), dns.TypeAAAA)
	msg.RecursionDesired = true
	// Correlation happens through the question name, not the ID.
	msg.Id = 0

	buf, err := msg.Pack()
	if err != nil {
		return nil, errors.Wrap(err, "cannot pack the query template")
	}
	if len(buf) < headerSize+1+probeLabelLen || buf[headerSize] != probeLabelLen {
		return nil, errors.New("unexpected layout in the packed query template")
	}

	return &queryTemplate{
		buf:   buf,
		label: buf[headerSize+1 : headerSize+1+probeLabelLen],
	}, nil
}

// setAddr rewrites the address-bearing label in place. The label window
// bounds the write, so the rest of the packed message cannot be
// clobbered.
func (t *queryTemplate) setAddr(addr uint32) {
	copy(t.label, EncodeLabel(addr))
}

func (t *queryTemplate) bytes() []byte {
	return t.buf
}
