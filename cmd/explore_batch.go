package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/dataexplore-cli/internal/dataset"
	"github.com/KaramelBytes/dataexplore-cli/internal/report"
	"github.com/KaramelBytes/dataexplore-cli/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	ebOutputDir    string
	ebFormat       string
	ebMedianPolicy string
	ebDelimiter    string
	ebPrecision    int
	ebNoHistory    bool
	ebJobs         int
)

var exploreBatchCmd = &cobra.Command{
	Use:   "explore-batch <files...>",
	Short: "Explore multiple CSV/TSV files concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		opt, err := resolveExploreOptions(cmd.Flags(), ebMedianPolicy, ebDelimiter, ebFormat, ebPrecision, ebNoHistory)
		if err != nil {
			return err
		}
		jobs := ebJobs
		if !cmd.Flags().Changed("jobs") && cfg != nil && cfg.BatchJobs > 0 {
			jobs = cfg.BatchJobs
		}
		if jobs <= 0 {
			jobs = 1
		}

		reps := make([]*report.Report, len(files))
		var g errgroup.Group
		g.SetLimit(jobs)
		for i, path := range files {
			i, path := i, path
			g.Go(func() error {
				log.WithFields(logrus.Fields{"file": path, "index": i}).Debug("exploring")
				ds, err := dataset.Load(path, opt.data)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				rep, err := report.Build(ds, opt.policy)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				reps[i] = rep
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		total := len(files)
		// json and yaml on stdout must stay machine-readable
		progress := !quiet && (opt.format == "text" || ebOutputDir != "")
		for i, rep := range reps {
			path := files[i]
			if progress {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			body, err := rep.Render(opt.format, opt.precision)
			if err != nil {
				return err
			}
			if ebOutputDir == "" {
				io.WriteString(out, body)
				continue
			}
			outFile, err := batchOutputPath(ebOutputDir, path, opt.format)
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(outFile, []byte(body), 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if progress {
				fmt.Fprintf(out, "✓ Wrote report to %s\n", outFile)
			}
		}

		if opt.history {
			if err := recordRuns(reps...); err != nil {
				log.WithError(err).Warn("could not record run history")
			}
		}
		return nil
	},
}

// expandInputs resolves glob patterns and literal paths, dropping duplicates.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// batchOutputPath picks <dir>/<base>.<ext>, adding a __N suffix instead of overwriting.
func batchOutputPath(dir, input, format string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	ext := map[string]string{"text": ".txt", "markdown": ".md", "md": ".md", "json": ".json", "yaml": ".yaml", "yml": ".yaml"}[format]
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	outFile := filepath.Join(dir, base+".report"+ext)
	if _, err := os.Stat(outFile); err != nil {
		return outFile, nil
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d.report%s", base, idx, ext))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand, nil
		}
	}
}

func init() {
	rootCmd.AddCommand(exploreBatchCmd)
	exploreBatchCmd.Flags().StringVar(&ebOutputDir, "output-dir", "", "directory to write one report per input (default stdout)")
	exploreBatchCmd.Flags().StringVarP(&ebFormat, "format", "f", "text", "report format: text|markdown|json|yaml")
	exploreBatchCmd.Flags().StringVar(&ebMedianPolicy, "median-policy", "midpoint", "even-length median: midpoint | legacy")
	exploreBatchCmd.Flags().StringVar(&ebDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default from extension)")
	exploreBatchCmd.Flags().IntVar(&ebPrecision, "precision", report.DefaultPrecision, "significant digits in text output")
	exploreBatchCmd.Flags().BoolVar(&ebNoHistory, "no-history", false, "do not record these runs in the history")
	exploreBatchCmd.Flags().IntVarP(&ebJobs, "jobs", "j", 4, "number of files explored concurrently")
}
