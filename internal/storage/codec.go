package storage

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// layoutCodec сериализует раскладку в JSON и сжимает zstd.
// Раскладки крупных комнат состоят из тысяч однотипных объектов и хорошо сжимаются.
type layoutCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newLayoutCodec() (*layoutCodec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &layoutCodec{enc: enc, dec: dec}, nil
}

func (c *layoutCodec) encode(layout *Layout) ([]byte, error) {
	raw, err := json.Marshal(layout)
	if err != nil {
		return nil, fmt.Errorf("marshal layout %s: %w", layout.Name, err)
	}
	return c.enc.EncodeAll(raw, make([]byte, 0, len(raw)/4)), nil
}

func (c *layoutCodec) decode(payload []byte) (*Layout, error) {
	raw, err := c.dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	var layout Layout
	if err := json.Unmarshal(raw, &layout); err != nil {
		return nil, fmt.Errorf("unmarshal layout: %w", err)
	}
	return &layout, nil
}

func (c *layoutCodec) close() {
	c.enc.Close()
	c.dec.Close()
}
