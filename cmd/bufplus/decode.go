package main

import (
	"encoding/hex"
	"fmt"

	"github.com/rawbytedev/bufferplus"
	"github.com/rawbytedev/bufferplus/pkg/compactwire"
	"github.com/rawbytedev/bufferplus/pkg/schema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newDecodeCmd() *cobra.Command {
	var flags schemaFlags
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode hex input and print the record as YAML",
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
			data, err := hex.DecodeString(stripSpace(string(in)))
			if err != nil {
				return fmt.Errorf("input: %w", err)
			}
			b := bufferplus.From(data)
			if flags.frame {
				if b, err = compactwire.UnpackBuffer(data); err != nil {
					return err
				}
			}
			rec := schema.NewRecord()
			if _, err := s.Decode(b, rec); err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(rec); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	flags.bind(cmd)
	return cmd
}
