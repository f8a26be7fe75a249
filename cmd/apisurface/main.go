// Command apisurface analyzes compiled JAX-RS class artifacts and emits the
// recovered REST API surface as an OpenAPI document or a plaintext listing.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
