// Copyright 2026 The Cardano-Go Authors
// This file is part of ledgerstate.
//
// ledgerstate is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ledgerstate is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with ledgerstate. If not, see <http://www.gnu.org/licenses/>.

package types

import (
	"fmt"

	"github.com/ugorji/go/codec"
)

// cborHandle is shared across Marshal/Unmarshal calls; codec.Handle values
// are safe for concurrent use once configured. Canonical mode sorts map
// keys and picks the shortest integer encoding, which is what lets two
// independently-produced encodings of the same logical value be compared
// byte-for-byte (spec §8 apply/undo round trip).
var cborHandle = func() *codec.CborHandle {
	h := &codec.CborHandle{}
	h.Canonical = true
	return h
}()

// MarshalCBOR encodes v using the shared canonical CBOR handle.
func MarshalCBOR(v any) ([]byte, error) {
	var buf []byte
	enc := codec.NewEncoderBytes(&buf, cborHandle)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("types: cbor encode: %w", err)
	}
	return buf, nil
}

// UnmarshalCBOR decodes into v, which must be a pointer.
func UnmarshalCBOR(b []byte, v any) error {
	dec := codec.NewDecoderBytes(b, cborHandle)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("types: cbor decode: %w", err)
	}
	return nil
}
