package storage

import (
	"encoding/binary"
	"errors"

	"github.com/litetable/litetable-htable/internal/litetable"
)

// Every badger key starts with one of these.
const (
	familyPrefix byte = 0x00
	cellPrefix   byte = 0x01
)

// Each variable length key part is escaped and closed by a terminator. Zero bytes inside a
// part are written as 0x00 0xFF, so a terminator always sorts before any longer part that
// shares the same bytes. termClose sorts after every key that continues the part.
const (
	escByte   byte = 0xFF
	termOpen  byte = 0x01
	termClose byte = 0x02
)

var errBadKey = errors.New("malformed cell key")

// appendEscaped writes b with its zero bytes escaped and no terminator.
func appendEscaped(dst, b []byte) []byte {
	for _, c := range b {
		if c == 0 {
			dst = append(dst, 0, escByte)
			continue
		}
		dst = append(dst, c)
	}
	return dst
}

func appendPart(dst, b []byte) []byte {
	return append(appendEscaped(dst, b), 0, termOpen)
}

func appendPartEnd(dst, b []byte) []byte {
	return append(appendEscaped(dst, b), 0, termClose)
}

// readPart decodes one terminated part and returns the rest of the key.
func readPart(key []byte) ([]byte, []byte, error) {
	var out []byte
	for i := 0; i < len(key); i++ {
		if key[i] != 0 {
			out = append(out, key[i])
			continue
		}
		if i+1 == len(key) {
			return nil, nil, errBadKey
		}
		switch key[i+1] {
		case escByte:
			out = append(out, 0)
			i++
		case termOpen:
			if out == nil {
				out = []byte{}
			}
			return out, key[i+2:], nil
		default:
			return nil, nil, errBadKey
		}
	}
	return nil, nil, errBadKey
}

// encodeTimestamp maps newer timestamps to smaller bytes.
func encodeTimestamp(dst []byte, ts int64) []byte {
	return binary.BigEndian.AppendUint64(dst, ^(uint64(ts) ^ (1 << 63)))
}

func decodeTimestamp(b []byte) int64 {
	return int64(^binary.BigEndian.Uint64(b) ^ (1 << 63))
}

// familyKey is where the attributes of a column family live.
func familyKey(family string) []byte {
	return append([]byte{familyPrefix}, family...)
}

// familyStart sorts before every cell of the family.
func familyStart(family string) []byte {
	return appendPart([]byte{cellPrefix}, []byte(family))
}

// familyEnd sorts after every cell of the family.
func familyEnd(family string) []byte {
	return appendPartEnd([]byte{cellPrefix}, []byte(family))
}

// cellKey encodes family, row, qualifier and timestamp so byte order matches
// litetable.Compare.
func cellKey(family string, row, qualifier []byte, ts int64) []byte {
	k := make([]byte, 0, len(family)+len(row)+len(qualifier)+16)
	k = append(k, cellPrefix)
	k = appendPart(k, []byte(family))
	k = appendPart(k, row)
	k = appendPart(k, qualifier)
	return encodeTimestamp(k, ts)
}

// seekKey encodes a cell or one of the synthetic seek keys.
func seekKey(family string, c *litetable.Cell) []byte {
	k := familyStart(family)
	switch c.Type {
	case litetable.TypeFirstOnRow:
		return appendPart(k, c.Row)
	case litetable.TypeLastOnRow:
		return appendPartEnd(k, c.Row)
	case litetable.TypeLastOnColumn:
		return appendPartEnd(appendPart(k, c.Row), c.Qualifier)
	}
	return cellKey(family, c.Row, c.Qualifier, c.Timestamp)
}

// decodeCellKey fills c from a key written by cellKey.
func decodeCellKey(key []byte, c *litetable.Cell) error {
	if len(key) == 0 || key[0] != cellPrefix {
		return errBadKey
	}
	_, rest, err := readPart(key[1:])
	if err != nil {
		return err
	}
	if c.Row, rest, err = readPart(rest); err != nil {
		return err
	}
	if c.Qualifier, rest, err = readPart(rest); err != nil {
		return err
	}
	if len(rest) != 8 {
		return errBadKey
	}
	c.Timestamp = decodeTimestamp(rest)
	c.Type = litetable.TypePut
	return nil
}
