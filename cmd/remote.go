package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/smazurov/lichtwerk/internal/api/models"
	"github.com/smazurov/lichtwerk/internal/client"
	"github.com/smazurov/lichtwerk/internal/device"
	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:8090"

func addServerFlag(c *cobra.Command, server *string) {
	c.PersistentFlags().StringVarP(server, "server", "s", defaultServer, "Controller base URL")
}

// CreateStatusCmd creates the status command.
func CreateStatusCmd() *cobra.Command {
	var server string

	c := &cobra.Command{
		Use:   "status",
		Short: "Show the state of a running controller",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(c.Context(), client.DefaultTimeout)
			defer cancel()

			st, err := client.NewHTTP(server).Status(ctx)
			if err != nil {
				return err
			}
			printStatus(c.OutOrStdout(), st)
			return nil
		},
	}
	addServerFlag(c, &server)
	return c
}

// CreateSetCmd creates the set command with one subcommand per field.
func CreateSetCmd() *cobra.Command {
	var server string

	c := &cobra.Command{
		Use:   "set",
		Short: "Change the state of a running controller",
	}
	addServerFlag(c, &server)

	mutation := func(use, short string, nargs int, apply func(ctx context.Context, h *client.HTTP, args []string) (models.StatusData, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(nargs),
			RunE: func(c *cobra.Command, args []string) error {
				ctx, cancel := context.WithTimeout(c.Context(), client.DefaultTimeout)
				defer cancel()

				st, err := apply(ctx, client.NewHTTP(server), args)
				if err != nil {
					return err
				}
				printStatus(c.OutOrStdout(), st)
				return nil
			},
		}
	}

	c.AddCommand(
		mutation("power <on|off>", "Switch the strip on or off", 1, func(ctx context.Context, h *client.HTTP, args []string) (models.StatusData, error) {
			on, err := parseSwitch(args[0])
			if err != nil {
				return models.StatusData{}, err
			}
			return h.SetPower(ctx, on)
		}),
		mutation("color <#rrggbb|r,g,b>", "Set the base color", 1, func(ctx context.Context, h *client.HTTP, args []string) (models.StatusData, error) {
			col, err := device.ParseColor(args[0])
			if err != nil {
				return models.StatusData{}, err
			}
			return h.SetColor(ctx, col)
		}),
		mutation("brightness <0-255>", "Set the brightness", 1, func(ctx context.Context, h *client.HTTP, args []string) (models.StatusData, error) {
			level, err := strconv.Atoi(args[0])
			if err != nil {
				return models.StatusData{}, fmt.Errorf("brightness: %w", err)
			}
			return h.SetBrightness(ctx, level)
		}),
		mutation("speed <1-100>", "Set the animation speed", 1, func(ctx context.Context, h *client.HTTP, args []string) (models.StatusData, error) {
			speed, err := strconv.Atoi(args[0])
			if err != nil {
				return models.StatusData{}, fmt.Errorf("speed: %w", err)
			}
			return h.SetSpeed(ctx, speed)
		}),
		mutation("effect <id>", "Switch the active effect", 1, func(ctx context.Context, h *client.HTTP, args []string) (models.StatusData, error) {
			return h.SetEffect(ctx, args[0])
		}),
		mutation("option <effect> <key> <value>", "Set an option of the active effect", 3, func(ctx context.Context, h *client.HTTP, args []string) (models.StatusData, error) {
			return h.SetEffectOption(ctx, args[0], args[1], parseOptionValue(args[2]))
		}),
	)
	return c
}

// CreateWatchCmd creates the watch command, which follows a controller
// through the sync agent and prints every change.
func CreateWatchCmd() *cobra.Command {
	var server string
	var interval time.Duration

	c := &cobra.Command{
		Use:   "watch",
		Short: "Follow the state of a running controller",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := c.OutOrStdout()
			var last string
			agent := client.NewAgent(client.NewHTTP(server), client.Options{
				PollInterval: interval,
				OnChange: func(v client.View) {
					line := formatView(v)
					if line == last {
						return
					}
					last = line
					_, _ = fmt.Fprintln(out, time.Now().Format(time.TimeOnly), line)
				},
			})
			err := agent.Run(ctx)
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
	addServerFlag(c, &server)
	c.Flags().DurationVarP(&interval, "interval", "i", 5*time.Second, "Status poll interval")
	return c
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

// parseOptionValue turns a command line word into the JSON type the
// option schema expects; the server coerces and validates it.
func parseOptionValue(s string) any {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}

func printStatus(w io.Writer, st models.StatusData) {
	power := "off"
	if st.Power {
		power = "on"
	}
	_, _ = fmt.Fprintf(w, "power:      %s\n", power)
	_, _ = fmt.Fprintf(w, "effect:     %s (%s)\n", st.Effect, st.EffectName)
	_, _ = fmt.Fprintf(w, "color:      %s\n", st.Color)
	_, _ = fmt.Fprintf(w, "brightness: %d\n", st.Brightness)
	_, _ = fmt.Fprintf(w, "speed:      %d\n", st.Speed)
	if opts := formatOptions(st.EffectOptions); opts != "" {
		_, _ = fmt.Fprintf(w, "options:    %s\n", opts)
	}
	_, _ = fmt.Fprintf(w, "strip:      %d LEDs on pin %d\n", st.LEDCount, st.Pin)
}

func formatView(v client.View) string {
	if !v.Synced {
		return "waiting for controller"
	}
	power := "off"
	if v.Power {
		power = "on"
	}
	line := fmt.Sprintf("power=%s effect=%s color=%s brightness=%d speed=%d", power, v.Effect, v.Color, v.Brightness, v.Speed)
	if opts := formatOptions(v.EffectOptions); opts != "" {
		line += " " + opts
	}
	if !v.Connected {
		line += " (disconnected)"
	}
	return line
}

func formatOptions(opts map[string]any) string {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, opts[k]))
	}
	return strings.Join(parts, " ")
}
