// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command hmdview is a head-mounted display viewer: it renders a scene
// in stereo with lens distortion correction, driven by an HMD
// orientation recording, gamepad, mouse, and keyboard.
//
// Controls:
//
//	W/A/S/D   - Move forward, left, back, right
//	Q/E       - Move down, up
//	Shift     - Crouch while held
//	Mouse     - Left drag looks around, right drag moves
//	Scroll    - Zoom the control view camera
//	1/2/3     - Single eye, stereo, stereo with distortion
//	Z         - Toggle the scene in the control view
//	R         - Reset the eye position
//	Backspace - Reset the distortion parameters
//	Esc       - Quit
package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"cogentcore.org/hmdview/base/errors"
	"cogentcore.org/hmdview/config"
	"cogentcore.org/hmdview/hmd"
	"cogentcore.org/hmdview/logx"
	"cogentcore.org/hmdview/viewer"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// defaultConfigFile is read if present when no config file is given.
const defaultConfigFile = "hmdview.toml"

func main() {
	if err := newRootCmd(config.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd returns the root command, with its flags bound to cfg.
func newRootCmd(cfg *config.Config) *cobra.Command {
	var configFile string
	var vv, v, q bool

	cmd := &cobra.Command{
		Use:          "hmdview",
		Short:        "Head-mounted display viewer with lens distortion correction",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logx.UserLevel = logx.LevelFromFlags(vv, v, q)
			logx.SetDefaultLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd.Flags(), cfg, configFile); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&vv, "vv", false, "very verbose: show debug messages")
	pf.BoolVarP(&v, "verbose", "v", false, "verbose: show info messages")
	pf.BoolVarP(&q, "quiet", "q", false, "quiet: only show errors")

	f := cmd.Flags()
	f.StringVarP(&configFile, "config", "c", "", "TOML config file (default "+defaultConfigFile+" if present)")
	f.IntVar(&cfg.Width, "width", cfg.Width, "window width")
	f.IntVar(&cfg.Height, "height", cfg.Height, "window height")
	f.BoolVar(&cfg.Fullscreen, "fullscreen", cfg.Fullscreen, "open fullscreen on the last monitor")
	f.VarP(&cfg.Mode, "mode", "m", "display mode: SingleEye, Stereo, or StereoWithDistortion")
	f.StringVarP(&cfg.Recording, "recording", "r", cfg.Recording, "YAML orientation recording to play as the HMD")
	f.StringVarP(&cfg.Tunables, "tunables", "t", cfg.Tunables, "TOML tunables file to watch")
	f.StringVarP(&cfg.Listen, "listen", "l", cfg.Listen, "address to serve tunables on over a websocket")
	f.IntVar(&cfg.Gamepad, "gamepad", cfg.Gamepad, "joystick index of the gamepad")
	f.Float32Var(&cfg.Control, "control", cfg.Control, "width of the control view inset relative to the window; 0 hides it")

	cmd.AddCommand(newTunablesCmd(), newRecordCmd())
	return cmd
}

// loadConfig reads the config file into cfg, keeping the values of any
// flags given on the command line. Without a config file, the default
// config file is read if it exists.
func loadConfig(flags *pflag.FlagSet, cfg *config.Config, filename string) error {
	changed := map[string]string{}
	flags.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})
	explicit := filename != ""
	if !explicit {
		filename = defaultConfigFile
	}
	if err := cfg.Load(filename); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	for name, val := range changed {
		if err := flags.Set(name, val); err != nil {
			return err
		}
	}
	return cfg.ExpandPaths()
}

func newTunablesCmd() *cobra.Command {
	var recording string
	cmd := &cobra.Command{
		Use:   "tunables",
		Short: "Print the default tunables as TOML, as a starting point for a tunables file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var dev hmd.Device
			if recording != "" {
				rec, err := hmd.OpenRecording(recording)
				if err != nil {
					return err
				}
				dev = rec
			}
			g, _ := hmd.Open(dev)
			return writeTunables(cmd.OutOrStdout(), viewer.DefaultTunables(g))
		},
	}
	cmd.Flags().StringVarP(&recording, "recording", "r", "", "recording whose geometry to use")
	return cmd
}

// writeTunables writes the tunables as TOML.
func writeTunables(w io.Writer, t viewer.Tunables) error {
	if err := toml.NewEncoder(w).Encode(t); err != nil {
		return fmt.Errorf("writing tunables: %w", err)
	}
	return nil
}
