// Copyright © by the dns64perf authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package dns64perf

import (
	"fmt"
	"strconv"
	"strings"
)

// The probe name layout is a serialization contract shared by the
// sender and the receiver: the high netmask bits of the encoded IPv4
// value are the fixed block prefix and the low 32-netmask bits carry
// the sequence number. The label template is fixed width so the sender
// can rewrite the label in place without repacking the message.
const (
	probeFormat = "%03d-%03d-%03d-%03d"
	probeDomain = "dns64perf.test."

	probeLabelLen = 15
)

// IndexMask returns the mask isolating the sequence number embedded in
// the low bits of a probe address. The mask is computed in 64-bit
// arithmetic so both boundary netmasks stay defined: netmask 0 yields
// 0xffffffff and netmask 32 yields 0.
func IndexMask(netmask uint8) uint32 {
	return uint32((uint64(1) << (32 - netmask)) - 1)
}

// EncodeLabel formats the four octets of addr into the fixed-width
// probe label.
func EncodeLabel(addr uint32) string {
	return fmt.Sprintf(probeFormat, byte(addr>>24), byte(addr>>16), byte(addr>>8), byte(addr))
}

// EncodeName synthesizes the fully-qualified probe name for sequence
// number n within the base address block. The sequence number must fit
// within the bits left free by the block's netmask.
func EncodeName(base, n uint32) string {
	return EncodeLabel(base|n) + "." + probeDomain
}

// DecodeIndex recovers the sequence number embedded in a probe name.
// It returns ErrMalformedLabel when the first label does not parse as
// four octets, and ErrIndexOutOfRange when the recovered sequence
// number is not below total.
func DecodeIndex(name string, netmask uint8, total uint32) (uint32, error) {
	label, _, _ := strings.Cut(name, ".")

	parts := strings.Split(label, "-")
	if len(parts) != 4 {
		return 0, ErrMalformedLabel
	}

	var addr uint32
	for _, part := range parts {
		octet, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return 0, ErrMalformedLabel
		}
		addr = addr<<8 | uint32(octet)
	}

	idx := addr & IndexMask(netmask)
	if idx >= total {
		return 0, ErrIndexOutOfRange
	}
	return idx, nil
}
