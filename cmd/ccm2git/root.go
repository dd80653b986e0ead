package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	progress "gopkg.in/cheggaaa/pb.v1"

	"github.com/aolsson/ccm2git/internal/blobstore"
	"github.com/aolsson/ccm2git/internal/commitgraph"
	"github.com/aolsson/ccm2git/internal/convert"
	"github.com/aolsson/ccm2git/internal/fastimport"
	"github.com/aolsson/ccm2git/internal/model"
)

// Exit codes distinguish the error kinds a scripted caller would want
// to branch on, rather than a single generic failure status.
const (
	exitOK = iota
	exitMalformedInput
	exitUnresolvableCycle
	exitFormatterViolation
	exitOther
)

var (
	cfgFile    string
	outputPath string
	blobsDir   string
	logPath    string
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "ccm2git <snapshot.json>",
	Short: "Convert a Synergy task history snapshot into a git fast-import stream.",
	Long: `ccm2git reads a JSON snapshot of a Synergy/CM release chain - releases,
file objects, tasks, and the file-history/task/release links between them -
and writes the equivalent git fast-import stream: one commit per task,
chained through a resolved, acyclic commits graph,
closed by a release merge commit per release boundary.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.Flags()
	flags.StringVarP(&outputPath, "output", "o", "", "Write the fast-import stream here instead of stdout.")
	flags.StringVar(&blobsDir, "blobs", "", "Directory of extracted file content, keyed by object_name. "+
		"Without this flag, blob records carry no content.")
	flags.StringVar(&logPath, "log", "ccm2git.log", "Path to the structured diagnostics log file.")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Do not print a progress bar to stderr.")
	flags.StringVar(&cfgFile, "config", "", "Config file (default: $HOME/.ccm2git.yaml).")

	viper.BindPFlag("output", flags.Lookup("output"))
	viper.BindPFlag("blobs", flags.Lookup("blobs"))
	viper.BindPFlag("log", flags.Lookup("log"))
	viper.BindPFlag("quiet", flags.Lookup("quiet"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".ccm2git")
		}
	}
	viper.SetEnvPrefix("CCM2GIT")
	viper.AutomaticEnv()
	viper.ReadInConfig()
}

func runConvert(cmd *cobra.Command, args []string) error {
	snapshotPath := args[0]

	logger := logrus.New()
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrapf(err, "opening log file %s", logPath)
	}
	defer logFile.Close()
	logger.SetOutput(logFile)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.WithField("snapshot", snapshotPath).Info("starting conversion")

	in, err := os.Open(snapshotPath)
	if err != nil {
		return errors.Wrapf(err, "opening snapshot %s", snapshotPath)
	}
	defer in.Close()

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return errors.Wrapf(err, "creating output %s", outputPath)
		}
		defer f.Close()
		out = f
	}

	var blobs fastimport.BlobSource = fastimport.NopBlobSource{}
	if blobsDir != "" {
		blobs = blobstore.FileStore{Root: blobsDir}
	}

	var bar *progress.ProgressBar
	if !quiet {
		logger.AddHook(&progressHook{bar: &bar})
	}

	err = convert.Run(in, out, blobs, logger)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		logger.WithError(err).Error("conversion failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
	return nil
}

// progressHook drives a cheggaaa/pb.v1 bar off the same "converting
// release" log entries emit.Run already produces, the same dual-use of
// a progress callback the teacher's root.go wires off hercules.Pipeline's
// OnProgress. bar is created lazily from the "releases" field logged by
// convert.Run before the walk starts, sized to the number of non-head
// releases in chain.Order.
type progressHook struct {
	bar    **progress.ProgressBar
	total  int
	i      int
	sawLen bool
}

func (h *progressHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.InfoLevel}
}

func (h *progressHook) Fire(entry *logrus.Entry) error {
	if !h.sawLen {
		if n, ok := entry.Data["releases"]; ok {
			if total, ok := n.(int); ok && total > 0 {
				h.total = total - 1
				*h.bar = progress.New(h.total)
				(*h.bar).SetMaxWidth(80).Start()
				h.sawLen = true
			}
		}
		return nil
	}
	if _, ok := entry.Data["release"]; ok && *h.bar != nil {
		h.i++
		(*h.bar).Set(h.i)
	}
	return nil
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, model.ErrMalformedInput):
		return exitMalformedInput
	case errors.Is(err, commitgraph.ErrUnresolvableCycle):
		return exitUnresolvableCycle
	case errors.Is(err, fastimport.ErrMissingContent), errors.Is(err, fastimport.ErrFormatterViolation):
		return exitFormatterViolation
	default:
		return exitOther
	}
}
