// Package msgpack provides a skema.Source for MessagePack payloads backed by
// vmihailenco/msgpack/v5.
package msgpack

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/value"
)

// Bytes returns a Source that decodes one MessagePack value from b. Maps with
// non-string keys are rendered with string keys.
func Bytes(b []byte) skema.Source { return Reader(bytes.NewReader(b)) }

// Reader returns a Source that decodes one MessagePack value read from r.
func Reader(r io.Reader) skema.Source {
	return skema.NewSource("msgpack", func() (any, error) {
		dec := msgpack.NewDecoder(r)
		dec.SetMapDecoder(func(d *msgpack.Decoder) (any, error) { return d.DecodeUntypedMap() })
		v, err := dec.DecodeInterface()
		if err != nil {
			return nil, errors.Wrap(err, "decode msgpack")
		}
		return value.Normalize(v), nil
	})
}
