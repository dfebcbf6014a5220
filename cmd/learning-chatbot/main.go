// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the learning-chatbot CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/learning-chatbot/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is decoded from defaults, the config file, and the environment
	// before any subcommand runs.
	cfg     types.Config
	logger  = zap.NewNop()
	verbose bool
)

// rootCmd is the base command for the learning-chatbot CLI.
var rootCmd = &cobra.Command{
	Use:   "learning-chatbot",
	Short: "A chatbot that learns to talk from what you say to it",
	Long: `learning-chatbot learns word transitions from every line it is shown and
answers with sentences built from what it has learned, steered toward the
current topics of conversation.

Brains are kept in a SQLite database by name. Use chat to converse, learn to
train from text files, say to generate without learning, and brains to list,
export, import, inspect, or delete stored brains.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := zcfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		logger = l

		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("decoding config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./learning-chatbot.yaml or ~/.config/learning-chatbot/learning-chatbot.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite brain database (overrides store.path)")
	rootCmd.PersistentFlags().String("brain", "", "brain name (overrides store.brain)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("store.brain", rootCmd.PersistentFlags().Lookup("brain"))
}

func initConfig() {
	setDefaults(types.DefaultConfig())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("learning-chatbot")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "learning-chatbot"))
		}
	}

	viper.SetEnvPrefix("LEARNING_CHATBOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so the environment can override any of
// them and so Unmarshal sees the full tree.
func setDefaults(d types.Config) {
	e := d.Engine
	defaults := map[string]any{
		"engine.decay_rate":               e.DecayRate,
		"engine.nominal_length":           e.NominalLength,
		"engine.max_length":               e.MaxLength,
		"engine.timeout":                  e.Timeout,
		"engine.topics":                   e.Topics,
		"engine.topic_split":              e.TopicSplit,
		"engine.min_branches":             e.MinBranches,
		"engine.max_branches":             e.MaxBranches,
		"engine.skip_chance":              e.SkipChance,
		"engine.loop_chance":              e.LoopChance,
		"engine.punctuation_chance":       e.PunctuationChance,
		"engine.punctuation_skip_chance":  e.PunctuationSkipChance,
		"engine.topic_skip_percent":       e.TopicSkipPercent,
		"engine.breadth_assurance_chance": e.BreadthAssuranceChance,
		"engine.seed":                     e.Seed,
		"store.path":                      d.Store.Path,
		"store.brain":                     d.Store.Brain,
		"chat.prompt":                     d.Chat.Prompt,
		"chat.reply_prefix":               d.Chat.ReplyPrefix,
	}
	for key, value := range defaults {
		viper.SetDefault(key, value)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
