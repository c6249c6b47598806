package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd is the base command every subcommand attaches to, the cobra-cli
// generated skeleton the teacher's own cmd/1D.go and cmd/2D.go built on top
// of (rootCmd.AddCommand in their init()).
var rootCmd = &cobra.Command{
	Use:   "ttcr",
	Short: "Traveltime computation on unstructured meshes via Fast Marching",
	Long: `ttcr raytraces transmitter-to-receiver traveltimes and, optionally,
ray paths through triangular or tetrahedral meshes by solving the eikonal
equation with a Fast Marching narrow-band sweep.`,
}

// Execute runs rootCmd, the single entry point main.go calls.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ttcr.yaml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".ttcr")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
