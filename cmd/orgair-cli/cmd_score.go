package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/scoring"
)

type scoreOptions struct {
	file   string
	sector string
	pretty bool
}

func newScoreCmd(root *rootOptions) *cobra.Command {
	opts := &scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one company from an evidence file",
		Long: `Score reads a company input (ticker, sector, evidence records and talent
signals) as YAML or JSON and prints the full scoring result as JSON.
Use "-" to read from stdin.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "Company input file (YAML or JSON, - for stdin)")
	f.StringVar(&opts.sector, "sector", "", "Override the sector in the input file")
	f.BoolVar(&opts.pretty, "pretty", true, "Indent the JSON output")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runScore(cmd *cobra.Command, root *rootOptions, opts *scoreOptions) error {
	in, err := readCompanyInput(cmd, opts.file)
	if err != nil {
		return err
	}
	if opts.sector != "" {
		in.Sector = opts.sector
	}

	engine, err := root.engine(cmd)
	if err != nil {
		return err
	}
	res, err := engine.Score(in)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(res)
}

// readCompanyInput decodes YAML, which also accepts JSON documents.
func readCompanyInput(cmd *cobra.Command, path string) (scoring.CompanyInput, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return scoring.CompanyInput{}, fmt.Errorf("read input: %w", err)
	}

	var in scoring.CompanyInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return scoring.CompanyInput{}, fmt.Errorf("parse input: %w", err)
	}
	if in.Ticker == "" {
		return scoring.CompanyInput{}, fmt.Errorf("parse input: ticker required")
	}
	return in, nil
}
