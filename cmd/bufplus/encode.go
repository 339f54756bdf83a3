package main

import (
	"encoding/hex"
	"fmt"

	"github.com/rawbytedev/bufferplus/pkg/compactwire"
	"github.com/rawbytedev/bufferplus/pkg/schema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newEncodeCmd() *cobra.Command {
	var (
		flags    schemaFlags
		compress bool
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a YAML record and print it as hex",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.schema()
			if err != nil {
				return err
			}
			in, err := flags.readInput(cmd)
			if err != nil {
				return err
			}
			rec := schema.NewRecord()
			if err := yaml.Unmarshal(in, rec); err != nil {
				return fmt.Errorf("record: %w", err)
			}
			data, err := s.Marshal(rec)
			if err != nil {
				return err
			}
			if flags.frame || compress {
				var f byte
				if compress {
					f |= compactwire.FlagCompressed
				}
				if data, err = compactwire.EncodeDataFrame(data, f); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
			return err
		},
	}
	flags.bind(cmd)
	cmd.Flags().BoolVar(&compress, "compress", false, "zstd-compress the framed payload (implies --frame)")
	return cmd
}
