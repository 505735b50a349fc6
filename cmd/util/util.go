package util

import (
	"strings"
	"time"

	"github.com/ValentinKolb/gcmap/lib/collector"
	"github.com/ValentinKolb/gcmap/lib/common"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig loads the env files and makes viper read GCMAP_<FLAG> variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("gcmap")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// SetupCollectorFlags adds the collector configuration flags to a command
func SetupCollectorFlags(cmd *cobra.Command) {
	key := "sweep-interval"
	cmd.PersistentFlags().Duration(key, 100*time.Millisecond, WrapString("Delay between the first pending release and the sweep that destroys the released stores"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warn", WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// GetCollectorOptions reads the collector configuration from viper
func GetCollectorOptions(name string) *collector.Options {
	opts := collector.DefaultOptions()
	opts.Name = name
	if interval := viper.GetDuration("sweep-interval"); interval > 0 {
		opts.SweepInterval = interval
	}
	return opts
}

// BindCommandFlags binds a command's flags to viper and applies the log level
func BindCommandFlags(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	return common.InitLoggers(viper.GetString("log-level"))
}
