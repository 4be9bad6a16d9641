package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/level"
	"github.com/HorseArcher567/octolog/pkg/receiver"
	"github.com/HorseArcher567/octolog/pkg/rpc"
)

var emitCmd = &cobra.Command{
	Use:   "emit <message>",
	Short: "Send one event to a receiver",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		network, _ := cmd.Flags().GetString("network")
		codecName, _ := cmd.Flags().GetString("codec")
		logger, _ := cmd.Flags().GetString("logger")
		lvl, _ := cmd.Flags().GetString("level")
		fields, _ := cmd.Flags().GetStringToString("field")

		l, err := level.Parse(lvl)
		if err != nil {
			return err
		}
		codec, err := receiver.NewCodec(codecName)
		if err != nil {
			return err
		}

		e := &core.Event{Time: time.Now(), Logger: logger, Level: l, Message: args[0]}
		if len(fields) > 0 {
			e.Fields = make(map[string]any, len(fields))
			for k, v := range fields {
				e.Fields[k] = v
			}
		}

		ctx, cancel := context.WithTimeout(contextOf(cmd), 5*time.Second)
		defer cancel()
		return receiver.Send(ctx, network, addr, codec, e)
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Query the gRPC health endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("target")
		service, _ := cmd.Flags().GetString("service")

		conn, err := rpc.NewClient(&rpc.ClientConfig{Target: target})
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx, cancel := context.WithTimeout(contextOf(cmd), 5*time.Second)
		defer cancel()
		st, err := rpc.CheckHealth(ctx, conn, service)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), st.String())
		if st != grpc_health_v1.HealthCheckResponse_SERVING {
			return fmt.Errorf("status %s", st)
		}
		return nil
	},
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	emitCmd.Flags().String("addr", "127.0.0.1:4560", "receiver address")
	emitCmd.Flags().String("network", "udp", "receiver network")
	emitCmd.Flags().String("codec", "json", "wire codec: json, xml or proto")
	emitCmd.Flags().String("logger", "octolog.emit", "logger name")
	emitCmd.Flags().String("level", "INFO", "event level")
	emitCmd.Flags().StringToString("field", nil, "extra field (repeatable)")

	healthCmd.Flags().String("target", "127.0.0.1:9090", "health server host:port")
	healthCmd.Flags().String("service", "", "service name (empty for overall status)")
}
