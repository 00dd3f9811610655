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

package archive

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/cardano-go/ledgerstate/core/ledgererror"
)

const component = "archive"

// blockFlag distinguishes stored block bytes so a reader from an archive
// built with a different policy doesn't need a side-channel config value.
type blockFlag byte

const (
	flagRaw        blockFlag = 0
	flagZlib       blockFlag = 1
	flagHeaderSize           = 1
)

func compressBlock(raw []byte, compress bool) ([]byte, error) {
	if !compress {
		return append([]byte{byte(flagRaw)}, raw...), nil
	}
	var buf bytes.Buffer
	buf.WriteByte(byte(flagZlib))
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return nil, ledgererror.Wrap(component, ledgererror.KindArchive, "zlib write", err)
	}
	if err := w.Close(); err != nil {
		return nil, ledgererror.Wrap(component, ledgererror.KindArchive, "zlib close", err)
	}
	return buf.Bytes(), nil
}

func decompressBlock(stored []byte) ([]byte, error) {
	if len(stored) < flagHeaderSize {
		return nil, ledgererror.New(component, ledgererror.KindDecoding, "stored block too short")
	}
	flag := blockFlag(stored[0])
	body := stored[flagHeaderSize:]
	switch flag {
	case flagRaw:
		return body, nil
	case flagZlib:
		r, err := zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, ledgererror.Wrap(component, ledgererror.KindDecoding, "zlib open", err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, ledgererror.Wrap(component, ledgererror.KindDecoding, "zlib read", err)
		}
		return out, nil
	default:
		return nil, ledgererror.New(component, ledgererror.KindDecoding, "unknown block flag")
	}
}
