package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"i4.energy/across/sensorfleet/broker"
	"i4.energy/across/sensorfleet/fleet"
	"i4.energy/across/sensorfleet/modem"
	"i4.energy/across/sensorfleet/sensor"
	"i4.energy/across/sensorfleet/telemetry"
)

// firmwareHint is logged with fatal workflow errors, which almost always
// mean the module runs an older AT firmware without MQTT support.
const firmwareHint = "verify that ESP-AT 2.2.0.0 or later is installed"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	config *Config
	logger *slog.Logger
	stdout io.Writer
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "sensorfleet",
		Short:         "Simulated sensors reporting over an ESP-AT WiFi modem",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			config, err := LoadConfig(
				WithDefaults(),
				WithFile(configPath, cmd.Flags().Changed("config")),
				WithDotEnv(".env"),
				WithEnv(),
				WithFlags(cmd.Flags()),
			)
			if err != nil {
				slog.Error("Failed to load configuration", "error", err)
				return err
			}

			a.config = config
			a.logger = newLogger(os.Stderr, config.LogLevel)
			a.stdout = cmd.OutOrStdout()
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "config.yml", "Path to the YAML configuration file")
	flags.String("serial-port", "", "Serial port to connect to the modem")
	flags.Int("baud-rate", modem.DefaultBaudRate, "Baud rate for serial communication")
	flags.String("mqtt-server", "", "MQTT broker address")
	flags.Int("mqtt-port", 1883, "MQTT broker port")
	flags.String("wifi-ssid", "", "WiFi network the modem joins")
	flags.String("wifi-password", "", "WiFi password")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.Duration("at-timeout", modem.DefaultATTimeout, "Timeout for each AT response line")
	flags.Duration("interval", fleet.DefaultInterval, "Pause between two passes over the sensors")
	flags.String("metrics-address", "", "Bind address for /metrics and /healthz (empty disables)")
	flags.Int("sntp-timezone", 0, "Enable SNTP with this UTC offset before each report")
	flags.StringSlice("sntp-server", nil, "SNTP server (repeatable, up to 3)")

	root.AddCommand(
		a.runCommand(),
		a.monitorCommand(),
		a.atCommand(),
		a.resetCommand(),
		a.leaveWiFiCommand(),
		a.sntpCommand(),
		a.tcpSendCommand(),
	)

	return root
}

func newLogger(w io.Writer, level string) *slog.Logger {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// openModem dials the serial port and returns a ready modem.
func (a *app) openModem(ctx context.Context, observer modem.Observer) (*modem.Modem, error) {
	builder := modem.NewConfigBuilder().
		WithATTimeout(a.config.ATTimeout).
		WithLogger(a.logger.With("component", "modem")).
		WithDialer(modem.SerialDialer{
			PortName: a.config.SerialPort,
			BaudRate: a.config.BaudRate,
		})
	if observer != nil {
		builder.WithObserver(observer)
	}

	modemConfig, err := builder.Build()
	if err != nil {
		a.logger.Error("Failed to create modem config", "error", err)
		return nil, err
	}

	m, err := modem.New(ctx, modemConfig)
	if err != nil {
		a.logger.Error("Failed to open modem", "port", a.config.SerialPort, "error", err)
		return nil, err
	}
	return m, nil
}

func (a *app) runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Wake every sensor in turn and publish its reading, forever",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.config.Validate(); err != nil {
				a.logger.Error("Invalid configuration", "error", err)
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics := telemetry.NewMetrics(registry)

			m, err := a.openModem(ctx, metrics)
			if err != nil {
				return err
			}
			defer func() {
				a.logger.Info("Closing modem connection")
				if err := m.Close(); err != nil {
					a.logger.Error("Failed to close modem", "error", err)
				}
			}()

			board := fleet.NewBoard()
			controller := fleet.NewController(m, a.config.Settings(), a.logger.With("component", "controller"), metrics)
			catalog := sensor.Catalog(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(uuid.New().ID()))))
			f := fleet.New(controller, catalog,
				fleet.WithInterval(a.config.CycleInterval),
				fleet.WithBoard(board),
				fleet.WithLogger(a.logger.With("component", "fleet")),
			)

			if a.config.MetricsAddress != "" {
				httpServer := &http.Server{
					Addr: a.config.MetricsAddress,
					Handler: &Server{
						Logger:   a.logger.With("component", "server"),
						Board:    board,
						Gatherer: registry,
					},
				}

				go func() {
					a.logger.Info("Starting HTTP server", "address", httpServer.Addr)
					if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						a.logger.Error("HTTP server failed", "error", err)
						stop()
					}
				}()

				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
					defer cancel()

					a.logger.Info("Closing HTTP server")
					if err := httpServer.Shutdown(shutdownCtx); err != nil {
						a.logger.Error("Failed to gracefully shutdown server", "error", err)
					}
				}()
			}

			a.logger.Info("Starting sensor fleet", "port", a.config.SerialPort, "sensors", len(catalog))
			err = f.Run(ctx)

			var fatal *fleet.FatalError
			switch {
			case errors.As(err, &fatal):
				a.logger.Error("Device workflow failed", "step", fatal.Step, "error", fatal.Err, "hint", firmwareHint)
				return err
			case errors.Is(err, context.Canceled):
				a.logger.Info("Received shutdown signal")
				return nil
			default:
				return err
			}
		},
	}
}

func (a *app) monitorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Watch what the fleet publishes on the broker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.config.ValidateBroker(); err != nil {
				a.logger.Error("Invalid configuration", "error", err)
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := a.logger.With("component", "monitor")
			client, err := broker.Connect(ctx, broker.Config{
				Server:   a.config.MQTTServer,
				Port:     a.config.MQTTPort,
				ClientID: "sensorfleet-monitor-" + uuid.NewString()[:8],
			}, logger)
			if err != nil {
				logger.Error("Failed to connect to broker", "error", err)
				return err
			}
			defer client.Disconnect(250)

			catalog := sensor.Catalog(rand.New(rand.NewPCG(0, 0)))
			return broker.NewMonitor(client, catalog, logger).Run(ctx, nil)
		},
	}
}

func (a *app) atCommand() *cobra.Command {
	var (
		success      string
		errorToken   string
		errorPattern string
		maxLength    int
	)

	cmd := &cobra.Command{
		Use:   "at <command>",
		Short: "Send one raw AT command and print the classified result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expect := modem.Expect{Success: success, Error: errorToken, MaxLength: maxLength}
			if errorPattern != "" {
				re, err := regexp.Compile(errorPattern)
				if err != nil {
					return fmt.Errorf("--error-pattern: %w", err)
				}
				expect.ErrorPattern = re
			}

			return a.withModem(cmd.Context(), func(ctx context.Context, m *modem.Modem) (modem.Result, error) {
				return m.Run(ctx, args[0], expect)
			})
		},
	}

	cmd.Flags().StringVar(&success, "success", "", "Line that marks success (default \"OK\")")
	cmd.Flags().StringVar(&errorToken, "error", "", "Line that marks failure (default \"ERROR\")")
	cmd.Flags().StringVar(&errorPattern, "error-pattern", "", "Regular expression marking failure")
	cmd.Flags().IntVar(&maxLength, "max-length", 0, "Maximum command length in bytes (default 256)")

	return cmd
}

func (a *app) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restart the module and wait until it has an IP address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModem(cmd.Context(), func(ctx context.Context, m *modem.Modem) (modem.Result, error) {
				return m.ResetAndWaitForWiFi(ctx)
			})
		},
	}
}

func (a *app) leaveWiFiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "leave-wifi",
		Short: "Disconnect the module from its access point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModem(cmd.Context(), func(ctx context.Context, m *modem.Modem) (modem.Result, error) {
				return m.LeaveWiFi(ctx)
			})
		},
	}
}

func (a *app) sntpCommand() *cobra.Command {
	var (
		timezone int
		servers  []string
	)

	cmd := &cobra.Command{
		Use:   "sntp",
		Short: "Enable SNTP on the module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModem(cmd.Context(), func(ctx context.Context, m *modem.Modem) (modem.Result, error) {
				return m.SetTimeServers(ctx, timezone, servers)
			})
		},
	}

	cmd.Flags().IntVar(&timezone, "timezone", 0, "UTC offset in hours")
	cmd.Flags().StringSliceVar(&servers, "server", nil, "SNTP server (repeatable, up to 3)")

	return cmd
}

func (a *app) tcpSendCommand() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "tcp-send <data>",
		Short: "Open a TCP connection, send data and close it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModem(cmd.Context(), func(ctx context.Context, m *modem.Modem) (modem.Result, error) {
				result, err := m.OpenTCP(ctx, host, port)
				if err != nil || result.Failed() {
					return result, err
				}

				sent, err := m.SendData(ctx, args[0])
				if err != nil {
					return sent, err
				}

				closed, err := m.CloseTCP(ctx)
				if err != nil {
					return closed, err
				}
				if sent.Failed() {
					return sent, nil
				}
				return closed, nil
			})
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Remote host")
	cmd.Flags().IntVar(&port, "port", 0, "Remote port")
	_ = cmd.MarkFlagRequired("host")
	_ = cmd.MarkFlagRequired("port")

	return cmd
}

// withModem opens the modem, runs one operation, prints its result and
// closes the modem again. A failed result makes the command fail.
func (a *app) withModem(ctx context.Context, op func(context.Context, *modem.Modem) (modem.Result, error)) error {
	if err := a.config.ValidateDevice(); err != nil {
		a.logger.Error("Invalid configuration", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m, err := a.openModem(ctx, nil)
	if err != nil {
		return err
	}
	defer m.Close()

	result, err := op(ctx, m)
	if err != nil {
		a.logger.Error("Command failed", "error", err)
		return err
	}

	printResult(a.stdout, result)
	return result.Err()
}

func printResult(w io.Writer, result modem.Result) {
	fmt.Fprintf(w, "%s: %s\n", result.Command, result.Status)
	if result.Message != "" {
		fmt.Fprintln(w, result.Message)
	}
	fmt.Fprint(w, result.Data)
}
