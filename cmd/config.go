package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vbuild-dev/vbuild/color"
	"github.com/vbuild-dev/vbuild/config"
	"github.com/vbuild-dev/vbuild/constant"
	"github.com/vbuild-dev/vbuild/filesystem"
	"github.com/vbuild-dev/vbuild/icon"
	vkey "github.com/vbuild-dev/vbuild/key"
	"github.com/vbuild-dev/vbuild/style"
	"github.com/vbuild-dev/vbuild/where"
)

func configFile() string {
	return filepath.Join(where.Config(), constant.App+".toml")
}

func errUnknownKey(key string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})
	return fmt.Errorf("unknown key %s, did you mean %s?", style.Fg(color.Red)(key), style.Fg(color.Yellow)(closest))
}

// field looks a key up by argument or --key flag.
func field(cmd *cobra.Command, args []string) *config.Field {
	key := lo.Must(cmd.Flags().GetString("key"))
	if len(args) > 0 {
		key = args[0]
	}
	if key == "" {
		handleErr(errors.New("key is required as an argument or --key flag"))
	}

	f, ok := config.Default[key]
	if !ok {
		handleErr(errUnknownKey(key))
	}
	return &f
}

// persist writes the live configuration, creating the file when missing.
func persist() {
	err := viper.WriteConfig()
	if errors.As(err, new(viper.ConfigFileNotFoundError)) {
		err = viper.SafeWriteConfigAs(configFile())
	}
	handleErr(err)
}

// parseValue converts raw into the type of f's default, rejecting values
// that would only fail later when read.
func parseValue(f *config.Field, raw []string) (any, error) {
	switch f.Value.(type) {
	case bool:
		return strconv.ParseBool(raw[0])
	case int:
		return strconv.Atoi(raw[0])
	case []string:
		return raw, nil
	}

	value := raw[0]
	switch f.Key {
	case vkey.VFSMaxSize:
		if value != "0" {
			if _, err := humanize.ParseBytes(value); err != nil {
				return nil, fmt.Errorf("invalid size %q", value)
			}
		}
	case vkey.TypesCacheTTL, vkey.NetworkTimeout:
		if _, err := time.ParseDuration(value); err != nil {
			return nil, fmt.Errorf("invalid duration %q", value)
		}
	case vkey.BuildFormat:
		if !lo.Contains([]string{"esm", "iife", "cjs"}, value) {
			return nil, fmt.Errorf("invalid format %q", value)
		}
	case vkey.IconsVariant:
		if !lo.Contains(icon.AvailableVariants(), value) {
			return nil, fmt.Errorf("invalid icons variant %q", value)
		}
	}
	return value, nil
}

func completionConfigKeys(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInfoCmd, configSetCmd, configGetCmd, configWriteCmd, configDeleteCmd, configResetCmd)

	configInfoCmd.Flags().StringSliceP("key", "k", nil, "Keys to describe")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	configInfoCmd.SetOut(os.Stdout)

	configSetCmd.Flags().StringP("key", "k", "", "Key to update")
	configSetCmd.Flags().StringSliceP("value", "v", nil, "New value")
	configGetCmd.Flags().StringP("key", "k", "", "Key to print")
	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
	configResetCmd.Flags().StringP("key", "k", "", "Key to reset")
	configResetCmd.Flags().BoolP("all", "a", false, "Reset every key")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")

	for _, c := range []*cobra.Command{configInfoCmd, configSetCmd, configGetCmd, configResetCmd} {
		lo.Must0(c.RegisterFlagCompletionFunc("key", completionConfigKeys))
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vbuild configuration",
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe configuration keys",
	Run: func(cmd *cobra.Command, args []string) {
		keys := lo.Must(cmd.Flags().GetStringSlice("key"))
		if len(keys) == 0 {
			keys = lo.Keys(config.Default)
		}
		sort.Strings(keys)

		fields := lo.Map(keys, func(k string, _ int) *config.Field {
			f, ok := config.Default[k]
			if !ok {
				handleErr(errUnknownKey(k))
			}
			return &f
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		for i, f := range fields {
			if i > 0 {
				cmd.Println()
			}
			cmd.Println(f.Pretty())
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:               "set [key] [value...]",
	Short:             "Set a configuration key",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		f := field(cmd, args)

		raw := lo.Must(cmd.Flags().GetStringSlice("value"))
		if len(args) > 1 {
			raw = args[1:]
		}
		if len(raw) == 0 {
			handleErr(errors.New("value is required as an argument or --value flag"))
		}

		value, err := parseValue(f, raw)
		handleErr(err)

		viper.Set(f.Key, value)
		persist()
		success("set %s to %s", style.Fg(color.Purple)(f.Key), style.Fg(color.Yellow)(fmt.Sprint(value)))
	},
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print a configuration value",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(viper.Get(field(cmd, args).Key))
	},
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current configuration to " + constant.App + ".toml",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("force")) {
			if err := filesystem.API().Remove(configFile()); err != nil && !os.IsNotExist(err) {
				handleErr(err)
			}
		}

		handleErr(viper.SafeWriteConfigAs(configFile()))
		success("wrote config to %s", configFile())
	},
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete the config file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFile()))
		success("deleted %s", configFile())
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default values",
	PreRun: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("key") && !cmd.Flags().Changed("all") {
			handleErr(errors.New("either --key or --all must be set"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			for k, f := range config.Default {
				viper.Set(k, f.Value)
			}
			persist()
			success("reset every key")
			return
		}

		f := field(cmd, args)
		viper.Set(f.Key, f.Value)
		persist()
		success("reset %s to %s", style.Fg(color.Purple)(f.Key), style.Fg(color.Yellow)(fmt.Sprint(f.Value)))
	},
}
