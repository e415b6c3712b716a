// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bocchi810/LSPosed/cmd/lspd-probe/cli"
	"github.com/bocchi810/LSPosed/lib/fdhandoff"
	"github.com/bocchi810/LSPosed/lib/procident"
	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"
)

type handoffResult struct {
	Socket     string `json:"socket"`
	Capability int32  `json:"capability"`
	FD         int    `json:"fd"`
	Target     string `json:"target,omitempty"`
	Echo       int32  `json:"echo"`
	Ack        int32  `json:"ack"`
}

func (p *probe) handoffCommand(ctx context.Context) *cli.Command {
	var (
		token        string
		debugVariant bool
		timeout      time.Duration
		jsonOutput   bool
	)
	return &cli.Command{
		Name:    "handoff",
		Summary: "Request a descriptor from the daemon",
		Description: `Connect to the daemon's abstract socket, send the capability code,
and report the descriptor and acknowledgement it returns. The
descriptor's target is printed and the descriptor closed.`,
		Examples: []cli.Example{
			{Description: "Ask for the debug flavour's descriptor", Command: "lspd-probe handoff --debug-variant"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := newFlagSet("handoff")
			flagSet.StringVar(&token, "token", p.config.Handoff.Token, "abstract socket token")
			flagSet.BoolVar(&debugVariant, "debug-variant", false, "request as the debug dex2oat flavour")
			flagSet.DurationVar(&timeout, "timeout", 5*time.Second, "give up after this long (0 waits forever)")
			flagSet.BoolVar(&jsonOutput, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if err := noArguments("handoff", args); err != nil {
				return err
			}

			requestCtx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				requestCtx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			client := &fdhandoff.Client{Token: token, Logger: p.logger}
			capability := fdhandoff.Capability{Is64: strconv.IntSize == 64, Debug: debugVariant}
			response, err := client.Request(requestCtx, capability)
			if err != nil {
				return err
			}

			result := handoffResult{
				Socket:     client.Address(),
				Capability: capability.Code(),
				FD:         response.FD,
				Echo:       response.Echo,
				Ack:        response.Ack,
			}
			if response.FD >= 0 {
				if target, err := (&procident.Procfs{}).DescriptorPath(response.FD); err == nil {
					result.Target = target
				}
				unix.Close(response.FD)
			}

			if jsonOutput {
				return cli.WriteJSON(p.out, result)
			}
			fmt.Fprintf(p.out, "socket:     %s\n", result.Socket)
			fmt.Fprintf(p.out, "capability: %d\n", result.Capability)
			fmt.Fprintf(p.out, "fd:         %d %s\n", result.FD, result.Target)
			fmt.Fprintf(p.out, "echo:       %d\n", result.Echo)
			fmt.Fprintf(p.out, "ack:        %d\n", result.Ack)
			return nil
		},
	}
}
