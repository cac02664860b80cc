package cachefile

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"

	"github.com/32bitkid/blam/errs"
)

// codec compresses a cache file body.
type codec interface {
	compress(body []byte) ([]byte, error)
	// decompress expects exactly size bytes of output.
	decompress(body []byte, size int) ([]byte, error)
}

func codecFor(e Engine) (codec, error) {
	switch e {
	case EngineXbox:
		return zlibCodec{}, nil
	case EnginePC, EngineCustomEdition:
		return zstdCodec{}, nil
	}
	return nil, errs.Unsupportedf("%s cache files are never compressed", e)
}

type zlibCodec struct{}

func (zlibCodec) compress(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (zlibCodec) decompress(body []byte, size int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, errs.Wrap(err, "zlib")
	}
	defer zr.Close()
	out, err := io.ReadAll(io.LimitReader(zr, int64(size)+1))
	if err != nil {
		return nil, errs.Wrap(err, "zlib")
	}
	return out, nil
}

var zstdDecoderPool = sync.Pool{
	New: func() any {
		d, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(fmt.Sprintf("zstd decoder: %v", err))
		}
		return d
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		e, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			panic(fmt.Sprintf("zstd encoder: %v", err))
		}
		return e
	},
}

type zstdCodec struct{}

func (zstdCodec) compress(body []byte) ([]byte, error) {
	enc := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(body, nil), nil
}

func (zstdCodec) decompress(body []byte, size int) ([]byte, error) {
	dec := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)
	out, err := dec.DecodeAll(body, make([]byte, 0, size))
	if err != nil {
		return nil, errs.Wrap(err, "zstd")
	}
	return out, nil
}
