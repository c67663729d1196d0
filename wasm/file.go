package wasm

import (
	"context"
	"fmt"

	"github.com/viant/afs"
)

// DecodeFile reads the module at URL through fs and decodes its export table.
func DecodeFile(ctx context.Context, fs afs.Service, URL string) (*ExportTable, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read module %s: %w", URL, err)
	}
	exports, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", URL, err)
	}
	return exports, nil
}
