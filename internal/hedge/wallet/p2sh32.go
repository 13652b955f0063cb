package wallet

import (
	"fmt"
	"strings"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
)

const (
	p2sh32HashSize = 32
	// script hash type, 256 bit size code
	p2sh32Version = 1<<3 | 3

	cashAddrCharset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"
)

// encodeP2SH32 encodes a 32 byte script hash as a cashaddr. bchutil only knows 20 byte
// hashes.
func encodeP2SH32(hash []byte) (string, error) {
	if len(hash) != p2sh32HashSize {
		return "", fmt.Errorf("encode p2sh32 address: hash of %d bytes", len(hash))
	}
	prefix := strings.TrimSuffix(model.CashAddrPrefix, ":")
	payload := regroup(append([]byte{p2sh32Version}, hash...))

	checksumInput := make([]byte, 0, len(prefix)+1+len(payload)+8)
	for i := 0; i < len(prefix); i++ {
		checksumInput = append(checksumInput, prefix[i]&0x1f)
	}
	checksumInput = append(checksumInput, 0)
	checksumInput = append(checksumInput, payload...)
	checksumInput = append(checksumInput, make([]byte, 8)...)
	mod := polymod(checksumInput)

	var sb strings.Builder
	sb.WriteString(model.CashAddrPrefix)
	for _, v := range payload {
		sb.WriteByte(cashAddrCharset[v])
	}
	for i := 0; i < 8; i++ {
		sb.WriteByte(cashAddrCharset[mod>>(5*(7-i))&0x1f])
	}
	return sb.String(), nil
}

// regroup splits bytes into 5 bit groups, zero padding the last one.
func regroup(data []byte) []byte {
	var (
		acc  uint32
		bits uint
		out  = make([]byte, 0, len(data)*8/5+1)
	)
	for _, v := range data {
		acc = acc<<8 | uint32(v)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out = append(out, byte(acc>>bits&0x1f))
		}
	}
	if bits > 0 {
		out = append(out, byte(acc<<(5-bits)&0x1f))
	}
	return out
}

func polymod(values []byte) uint64 {
	c := uint64(1)
	for _, d := range values {
		c0 := byte(c >> 35)
		c = ((c & 0x07ffffffff) << 5) ^ uint64(d)
		if c0&0x01 != 0 {
			c ^= 0x98f2bc8e61
		}
		if c0&0x02 != 0 {
			c ^= 0x79b76d99e2
		}
		if c0&0x04 != 0 {
			c ^= 0xf33e5fb3c4
		}
		if c0&0x08 != 0 {
			c ^= 0xae2eabe2a8
		}
		if c0&0x10 != 0 {
			c ^= 0x1e4f43e470
		}
	}
	return c ^ 1
}
