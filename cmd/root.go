package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fpgatools/fasm2bit/assemble"
	"github.com/fpgatools/fasm2bit/config"
	"github.com/fpgatools/fasm2bit/database"
	"github.com/fpgatools/fasm2bit/log"
)

var (
	prjxrayDBPathFlag string
	partFlag          string
)

var rootCmd = &cobra.Command{
	Use:   "fasm2bit [input.fasm]",
	Short: "Assembles FASM files into Xilinx 7-series bitstreams",
	Long: `fasm2bit parses a sequence of FASM lines, resolves each feature against
the prjxray database of the selected part and assembles the resulting
configuration frames into a bitstream. The bitstream is written to stdout.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAssemble,
}

func init() {
	rootCmd.Flags().StringVar(&prjxrayDBPathFlag, "prjxray_db_path", "",
		"Root folder containing the prjxray database for the FPGA family. "+
			"If not present, it is taken from PRJXRAY_DB_PATH or the config file.")
	rootCmd.Flags().StringVar(&partFlag, "part", "", `FPGA part name, e.g. "xc7a35tcsg324-1".`)
	rootCmd.MarkFlagRequired("part")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&log.Verbose, "verbose", "v", false, "Print debug output")
	if err := rootCmd.Execute(); err != nil {
		log.Error("%s\n", err)
		os.Exit(1)
	}
}

func databasePath() (string, error) {
	if prjxrayDBPathFlag != "" {
		return prjxrayDBPathFlag, nil
	}
	if path, ok := os.LookupEnv("PRJXRAY_DB_PATH"); ok {
		return path, nil
	}
	if path := config.GetConfig().PrjxrayDBPath; path != "" {
		return path, nil
	}
	return "", fmt.Errorf("flag \"prjxray_db_path\" not provided either via commandline " +
		"or environment variable (PRJXRAY_DB_PATH)")
}

// openDatabase loads the part database, with a little feedback on stderr
// when someone is watching: tilegrid.json alone runs to tens of megabytes.
func openDatabase(path, part string) (*database.PartDatabase, error) {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return database.Open(path, part)
	}
	progress := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriter(os.Stderr), spinner.WithSuffix(" loading part database"))
	progress.Start()
	defer progress.Stop()
	return database.Open(path, part)
}

func runAssemble(cmd *cobra.Command, args []string) error {
	dbPath, err := databasePath()
	if err != nil {
		return fmt.Errorf("get prjxray db path: %w", err)
	}
	if stat, err := os.Stat(dbPath); err != nil || !stat.IsDir() {
		return fmt.Errorf("invalid prjxray-db path: %q", dbPath)
	}

	db, err := openDatabase(dbPath, partFlag)
	if err != nil {
		return err
	}
	log.Debug("loaded database with %d tiles\n", len(db.Grid()))

	input := os.Stdin
	sourceName := "fasm"
	if len(args) == 1 && args[0] != "-" {
		input, err = os.Open(args[0])
		if err != nil {
			return err
		}
		defer input.Close()
		sourceName = args[0]
	}

	return assemble.Bitstream(input, log.Diagnostics, db, partFlag, sourceName, os.Stdout)
}
