package wasm

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
)

// Validate compiles data with wazero without instantiating it. It is used in
// strict mode to refuse export tables of modules a runtime would reject.
// Compilation failures are reported as *MalformedError.
func Validate(ctx context.Context, data []byte) error {
	runtime := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer runtime.Close(ctx)

	compiled, err := runtime.CompileModule(ctx, data)
	if err != nil {
		return malformed("module", 0, fmt.Errorf("%w: %v", ErrInvalidModule, err))
	}
	return compiled.Close(ctx)
}
