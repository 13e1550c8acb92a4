// Command analyzer browses, draws and explains forex candlestick patterns.
package main

import (
	"os"

	"candle-analyzer/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
