package persistence

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/Absle/swt-gen/internal/subsector"
)

// zstd-compressed document archives, the format for moving subsectors
// between installs or attaching them to a campaign wiki.

// ExportArchive compresses the subsector's serialized document.
func ExportArchive(s *subsector.Subsector) ([]byte, error) {
	body, err := subsector.Save(s)
	if err != nil {
		return nil, fmt.Errorf("archiving subsector: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("archiving subsector: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(body, nil), nil
}

// ImportArchive decompresses and fully validates an archived document.
func ImportArchive(data []byte) (*subsector.Subsector, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	defer dec.Close()

	body, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: not a zstd archive: %v", subsector.ErrSchemaMismatch, err)
	}
	return subsector.Load(body)
}
