package main

import (
	"context"
	"vendorscrape/cmd/vendorscrape/commands"
	"vendorscrape/lib/telemetry"
)

func main() {
	ctx := context.Background()
	telemetry.InitSlog(false)
	if tel, err := telemetry.SetupFromEnv(ctx, "vendorscrape"); err == nil {
		defer tel.Shutdown(ctx)
	}
	telemetry.InstrumentPerfStats(ctx)
	commands.ExecuteContext(ctx)
}
