package core

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	dxdataOs "github.com/donnyhardyanto/dxdata/utils/os"
)

var RootContext context.Context
var RootContextCancel context.CancelFunc

func init() {
	_ = dxdataOs.LoadEnvFile(`./run.env`)
	_ = dxdataOs.LoadEnvFile(`./key.env`)
	_ = dxdataOs.LoadEnvFile(`./.env`)
	RootContext, RootContextCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
