package main

import (
	"codeberg.org/miketth/kbswitch/pkg/config"
	"codeberg.org/miketth/kbswitch/pkg/kbswitch"
	"codeberg.org/miketth/kbswitch/pkg/xkblayouts"
	"fmt"
	"github.com/spf13/cobra"
	"io"
	"strconv"
	"strings"
	"time"
)

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "kbswitch",
		Short: "Switch Hyprland keyboard layouts by how often you use them",
		Long: "kbswitch toggles between the two most recently used keyboard layouts.\n" +
			"Pressing the switch key quickly three times or more walks through the\n" +
			"remaining layouts and keeps the one you stop on close at hand.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("%w: no command given", kbswitch.ErrUsage)
		},
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd == rootCmd {
			return nil
		}
		// arguments are valid at this point, failures from here on are not usage problems
		cmd.SilenceUsage = true
		return a.setup()
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultConfigPath(), "path to config.toml")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newInitCmd(a),
		newSwitchCmd(a),
		newUpdateLayoutsCmd(a),
		newKeypressDurationCmd(a),
		newStatusCmd(a),
		newDevicesCmd(a),
	)

	return rootCmd
}

func usageArgs(lo, hi int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < lo || len(args) > hi {
			return fmt.Errorf("%w: %s expects %s, got %d argument(s)", kbswitch.ErrUsage, cmd.Name(), what, len(args))
		}
		return nil
	}
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the switcher state from the layouts configured in Hyprland",
		Long: "Reads input:kb_layout from Hyprland and writes a fresh state record,\n" +
			"overwriting any existing one. Must be run before switch.",
		Args: usageArgs(0, 0, "no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			state, err := kbswitch.NewInitializer(a.hyprctl(), store, a.log).Init(cmd.Context())
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "initialized with %d layouts\n", len(state.Layouts))
			return nil
		},
	}
}

func newSwitchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <device_name>",
		Short: "Switch the layout of a keyboard, bind this to a key",
		Long: "Switches to the other frequently used layout. Three or more quick presses\n" +
			"cycle through the remaining layouts. The device name is shown by 'kbswitch devices'.",
		Args: usageArgs(1, 1, "exactly one <device_name>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			sw := kbswitch.NewSwitcher(a.cfg.SwitcherConfig(), store, a.hyprctl(), a.log)
			if _, err := sw.Switch(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("switch: %w", err)
			}

			return nil
		},
	}
}

func newUpdateLayoutsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update-layouts",
		Short: "Reload the layout list after changing it in hyprland.conf",
		Args:  usageArgs(0, 0, "no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			state, err := kbswitch.NewInitializer(a.hyprctl(), store, a.log).Refresh(cmd.Context())
			if err != nil {
				return fmt.Errorf("update layouts: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "now switching between %d layouts\n", len(state.Layouts))
			return nil
		},
	}
}

func newKeypressDurationCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keypress-duration [seconds]",
		Short: "Print or set the longest pause between presses of one burst",
		Long: fmt.Sprintf("Without an argument prints the current value. A new value must lie within\n"+
			"[%v, %v] seconds and is stored with the switcher state.",
			kbswitch.MinMaxDuration.Seconds(), kbswitch.MaxMaxDuration.Seconds()),
		Args: usageArgs(0, 1, "at most one [seconds] value"),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			sw := kbswitch.NewSwitcher(a.cfg.SwitcherConfig(), store, a.hyprctl(), a.log)

			if len(args) == 0 {
				d, err := sw.MaxDuration()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "current keypress duration: %vs\n", d.Seconds())
				return nil
			}

			secs, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("%w: %q is not a number of seconds", kbswitch.ErrUsage, args[0])
			}

			return sw.SetMaxDuration(time.Duration(secs * float64(time.Second)))
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored layout order and press counters",
		Args:  usageArgs(0, 0, "no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			state, err := store.Load()
			if err != nil {
				return fmt.Errorf("load state: %w", err)
			}
			if err := state.Validate(); err != nil {
				return err
			}

			names := a.layoutNames(cmd, len(state.Layouts))
			threshold := a.cfg.MaxDuration
			if state.MaxDuration > 0 {
				threshold = time.Duration(state.MaxDuration * float64(time.Second))
			}

			writeStatus(cmd.OutOrStdout(), state, names, threshold)
			return nil
		},
	}
}

// layoutNames resolves display names for the configured layouts. Hyprland or
// evdev.xml being unavailable only degrades the output to bare indices.
func (a *app) layoutNames(cmd *cobra.Command, count int) []string {
	names := make([]string, count)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}

	hyprctl := a.hyprctl()
	layouts, err := hyprctl.GetLayouts(cmd.Context())
	if err != nil {
		a.log.Debugw("could not query layouts", "error", err)
		return names
	}
	if len(layouts) != count {
		a.log.Warnw("layout list changed since init, run update-layouts", "configured", len(layouts), "stored", count)
	}

	variants, err := hyprctl.GetVariants(cmd.Context())
	if err != nil {
		a.log.Debugw("could not query variants", "error", err)
	}

	registry, err := xkblayouts.ParseLayouts(a.cfg.EvdevXML)
	if err != nil {
		a.log.Debugw("could not parse layout registry", "path", a.cfg.EvdevXML, "error", err)
	}

	for i, pretty := range registry.PrettyNames(layouts, variants) {
		if i < count {
			names[i] = fmt.Sprintf("%s [%s]", pretty, registry.ShortName(layouts[i]))
		}
	}

	return names
}

func writeStatus(w io.Writer, state kbswitch.State, names []string, threshold time.Duration) {
	fmt.Fprintf(w, "keypress duration: %vs\n", threshold.Seconds())
	fmt.Fprintf(w, "burst counter: %d\n", state.Counter)
	fmt.Fprintln(w, "layout order:")

	for pos, idx := range state.Layouts {
		marker := " "
		switch {
		case pos == state.CurFreq:
			marker = "*"
		case pos < 2:
			marker = "+"
		}
		fmt.Fprintf(w, "  %s %d: %s\n", marker, idx, names[idx])
	}
}

func newDevicesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List keyboards known to Hyprland",
		Args:  usageArgs(0, 0, "no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyboards, err := a.hyprctl().GetKeyboards(cmd.Context())
			if err != nil {
				return fmt.Errorf("get keyboards: %w", err)
			}

			w := cmd.OutOrStdout()
			for _, k := range keyboards {
				mark := ""
				if k.Main {
					mark = " (main)"
				}
				fmt.Fprintf(w, "%s%s\n    layouts: %s\n    active: %s\n",
					k.Name, mark, strings.Join(k.Layouts, ","), k.ActiveKeymap)
			}

			return nil
		},
	}
}
