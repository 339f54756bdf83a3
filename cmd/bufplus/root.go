package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rawbytedev/bufferplus"
	"github.com/rawbytedev/bufferplus/pkg/schema"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "bufplus",
		Short:         "Encode and decode schema-described binary records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !opts.verbose {
				return nil
			}
			l, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			bufferplus.SetLogger(l)
			schema.SetLogger(l)
			return nil
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log registrations and schema compilation")
	cmd.AddCommand(newTypesCmd(), newEncodeCmd(), newDecodeCmd())
	return cmd
}

// schemaFlags are shared by encode and decode.
type schemaFlags struct {
	file  string
	name  string
	input string
	frame bool
}

func (f *schemaFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "schemas", "s", "", "schema file (YAML)")
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "schema name")
	cmd.Flags().StringVarP(&f.input, "input", "i", "-", "input file, - for stdin")
	cmd.Flags().BoolVar(&f.frame, "frame", false, "wrap or unwrap a compactwire data frame")
	_ = cmd.MarkFlagRequired("schemas")
	_ = cmd.MarkFlagRequired("name")
}

func (f *schemaFlags) schema() (*schema.Schema, error) {
	file, err := schema.ReadFile(f.file)
	if err != nil {
		return nil, err
	}
	r := schema.NewRegistry()
	if _, err := r.Load(file); err != nil {
		return nil, err
	}
	return r.Lookup(f.name)
}

func (f *schemaFlags) readInput(cmd *cobra.Command) ([]byte, error) {
	if f.input == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(f.input)
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
