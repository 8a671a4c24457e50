package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/koichikawamura/s3etag/etag"
	"github.com/koichikawamura/s3etag/sizeunit"
)

var debug = log.New(io.Discard, "[debug] ", log.Lshortfile)

func init() {
	log.SetFlags(log.Lshortfile)
	log.SetPrefix("[error] ")
}

const defaultSize = 8 * sizeunit.MB // 8388608, the aws-cli multipart default

// errBatchFailed signals a non-zero exit after every per-file error
// has already been reported to stderr.
var errBatchFailed = errors.New("one or more files failed")

func Command() *cobra.Command {
	threshold := sizeunit.Size(defaultSize)
	chunksize := sizeunit.Size(defaultSize)
	verbose := false

	cmd := &cobra.Command{
		Use:           "s3etag [flags] FILE...",
		Short:         "s3etag - compute AWS S3 ETags",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := cmd.Flags()
	flags.VarP(&threshold, "threshold", "t",
		"threshold to apply multipart md5 calculation in bytes or with a "+
			"size suffix KB, MB, GB, or TB")
	flags.VarP(&chunksize, "chunksize", "c",
		"multipart_chunksize used for upload in bytes or with a "+
			"size suffix KB, MB, GB, or TB")
	flags.BoolVarP(&verbose, "verbose", "v", false, "print verbose output")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			debug.SetOutput(cmd.ErrOrStderr())
		}
		if chunksize <= 0 {
			return fmt.Errorf("non-positive chunksize: %d", int64(chunksize))
		}
		stdout := cmd.OutOrStdout()
		stderr := cmd.ErrOrStderr()
		failed := 0
		for _, name := range args {
			debug.Println("processing:", name)
			tag, err := etag.Calculate(name, int64(threshold), int64(chunksize))
			if err != nil {
				failed++
				fmt.Fprintf(stderr, "ERROR: %s\n", err)
				// keep the columns aligned: errno stands in for the digest
				col := "ERROR"
				var fe *etag.FileError
				if errors.As(err, &fe) && fe.Errno() >= 0 {
					col = fmt.Sprintf("ERROR(%d)", fe.Errno())
				}
				fmt.Fprintf(stdout, "%-39s %s\n", col, name)
				continue
			}
			fmt.Fprintf(stdout, "%-39s %s\n", tag, name)
		}
		if failed > 0 {
			return errBatchFailed
		}
		return nil
	}
	return cmd
}

func main() {
	if err := Command().Execute(); err != nil {
		if !errors.Is(err, errBatchFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
