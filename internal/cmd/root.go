package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	recordcmd "r53ctl/internal/cmd/record"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "r53ctl",
		Short: "r53ctl - reconcile DNS record sets against Amazon Route 53",
		Long: `r53ctl converges a single desired DNS record set with the live state held
in an Amazon Route 53 hosted zone. It resolves the target zone (public,
private or VPC-scoped), compares the existing record set against the desired
one, and applies the minimal change needed, optionally waiting until the
change has propagated.`,
		Version: "1.0.0",
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.r53ctl.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(recordcmd.Cmd)

	// Load environment variables from a .env file in the current directory.
	// If the .env file doesn't exist, that's fine - environment variables can
	// still be set in the shell.
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".r53ctl")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
